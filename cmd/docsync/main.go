package main

import (
	"os"

	"github.com/bianoble/docsync/cmd/docsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
