package cmd

import (
	"fmt"

	"github.com/dendrascience/toolbox/util"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the toolbox CLI.
// It counts regular files in one or more directory trees.
func NewCountCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "count [PATH...]",
		Short: "Count files in directory trees",
		Long: `Count the regular files beneath each PATH (default ".").

Directories are not counted. With --limit the walk of each PATH stops as soon as
more than that many files have been seen, which is a quick way to answer "are there
more than N files here?" without walking a huge tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return runCount(args, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop counting a tree after this many files (0 for no limit)")

	return cmd
}

func runCount(paths []string, limit int) error {
	target := limit
	if target == 0 {
		target = int(^uint(0) >> 1)
	}
	total := 0
	for _, p := range paths {
		count, reached, err := util.CountSubfile(p, target)
		if err != nil {
			return fmt.Errorf("counting %s: %w", p, err)
		}
		suffix := ""
		if reached && limit > 0 {
			suffix = " (stopped past limit)"
		}
		fmt.Printf("%s: %d files%s\n", p, count, suffix)
		total += count
	}
	if len(paths) > 1 {
		fmt.Printf("Total files: %d\n", total)
	}
	return nil
}
