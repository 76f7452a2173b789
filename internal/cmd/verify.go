package cmd

import (
	"fmt"

	"github.com/dendrascience/toolbox/internal/config"
	"github.com/dendrascience/toolbox/util"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand for the toolbox CLI.
// It checks that two directory trees hold the same paths with the same content.
func NewVerifyCmd(app *config.App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify A B",
		Short: "Compare two directory trees by content",
		Long: `Compare the directory trees A and B.

Every file is hashed with SHA-256. Paths present in only one tree and files
whose content differs are listed, and the command fails if there are any.
Useful for checking that an extraction reproduced the tree it was made from.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0], args[1], app.Verbose)
		},
	}
}

func runVerify(a, b string, verbose bool) error {
	if verbose {
		fmt.Printf("Comparing %s with %s\n", a, b)
	}
	diffs, err := util.CompareTrees(a, b)
	if err != nil {
		return err
	}
	for _, d := range diffs {
		fmt.Printf("  - %s\n", d)
	}
	if len(diffs) > 0 {
		return fmt.Errorf("trees differ in %d place(s)", len(diffs))
	}
	fmt.Println("Trees match")
	return nil
}
