package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/engine"
	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

var (
	filesDryRun    bool
	filesDiff      bool
	filesBackup    bool
	filesBinary    bool
	filesEncoding  string
	filesComment   bool
	filesNoComment bool
	filesSections  []string
)

var filesCmd = &cobra.Command{
	Use:   "files SOURCE TARGET",
	Short: "Synchronize one file's contents into another",
	Long: `Copies SOURCE into TARGET, or, with one or more --section mappings, merges
the named sections of SOURCE into TARGET and leaves the rest of TARGET as is.

A section mapping has the form

  [adapter:]src.path->[adapter[(render_options)]:]dst.path[?create=true&force=false]

for example

  docsync files config.yaml README.md \
    -s 'yaml:settings->markdown(render_as=table):Configuration?create=true'

Exit status is 2 when a mapping cannot be parsed and 1 for any other error.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target := args[0], args[1]

		opts := engine.DefaultOptions()
		opts.DryRun = filesDryRun
		opts.ShowDiff = filesDiff
		opts.Backup = filesBackup
		opts.AllowBinary = filesBinary
		opts.Encoding = filesEncoding
		opts.Comments = filesComment && !filesNoComment

		mappings, err := parseSections(filesSections)
		if err != nil {
			return err
		}
		opts.Sections = mappings

		res, err := newEngine().Sync(cmd.Context(), source, target, opts)
		if err != nil {
			return err
		}
		reportResult(source, target, res)
		return nil
	},
}

// parseSections parses --section values. It returns nil when there are none.
func parseSections(raw []string) ([]pathexpr.SectionMapping, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	mappings := make([]pathexpr.SectionMapping, 0, len(raw))
	for _, r := range raw {
		m, err := pathexpr.Parse(r)
		if err != nil {
			return nil, syncerr.Wrap(syncerr.KindMapping, err, "invalid section mapping '%s'", r)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func init() {
	filesCmd.Flags().BoolVar(&filesDryRun, "dry-run", false, "preview actions without writing modifications")
	filesCmd.Flags().BoolVar(&filesDiff, "diff", false, "show a unified diff of the proposed changes")
	filesCmd.Flags().BoolVar(&filesBackup, "backup", false, "create a timestamped backup before overwriting the target")
	filesCmd.Flags().BoolVar(&filesBinary, "binary", false, "allow synchronization of binary files")
	filesCmd.Flags().StringVar(&filesEncoding, "encoding", engine.DefaultEncoding, "text encoding used to read and write files")
	filesCmd.Flags().BoolVar(&filesComment, "comment", true, "add auto-generated marker comments")
	filesCmd.Flags().BoolVar(&filesNoComment, "no-comment", false, "do not add marker comments")
	filesCmd.Flags().StringArrayVarP(&filesSections, "section", "s", nil, "map a source section into a destination section (repeatable)")
	rootCmd.AddCommand(filesCmd)
}
