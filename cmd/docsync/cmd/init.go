package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/config"
)

var initForce bool

// initTemplate is the default docsync.yaml scaffold.
const initTemplate = `# docsync job file
version: 1

# Defaults apply to every job that does not set its own value.
defaults:
  backup: false
  comments: true
  encoding: utf-8

jobs:
  # Render a YAML section as a table under a README heading.
  - name: readme-settings
    source: config/settings.yaml
    target: README.md
    sections:
      - "yaml:settings->markdown(render_as=table_with_headers_capitalized):Configuration?create=true"

  # Copy one YAML subtree into another file.
  # - name: shared-defaults
  #   source: base.yaml
  #   target: deploy/values.yaml
  #   sections:
  #     - "defaults->app.defaults?create=true"

  # Whole-file copy, with a backup of the previous target.
  # - name: license
  #   source: LICENSE
  #   target: docs/LICENSE
  #   backup: true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter docsync.yaml job file",
	Long: `Creates a docsync.yaml file in the current directory (or at --config) with a
commented example job.

Use --force to overwrite an existing job file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if outPath == "" {
			outPath = config.FileNames[0]
		}
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the jobs to point at your files")
		info("  2. Run 'docsync run --dry-run --diff' to preview")
		info("  3. Run 'docsync check' in CI to catch drift")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing job file")
	rootCmd.AddCommand(initCmd)
}
