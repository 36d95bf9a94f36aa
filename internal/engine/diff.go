package engine

import (
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// unifiedDiff returns the changes from the current target text to the new
// text, or "" when they are equal.
func unifiedDiff(oldText, newText, fromName, toName string) string {
	if oldText == newText {
		return ""
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: fromName,
		ToFile:   toName,
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}
	return out
}

// splitLines keeps line endings and, unlike difflib.SplitLines, adds no
// empty line after a final newline.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func displayName(path string) string {
	return filepath.Base(path)
}
