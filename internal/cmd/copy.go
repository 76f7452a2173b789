package cmd

import (
	"fmt"
	"time"

	"github.com/dendrascience/toolbox/internal/config"
	"github.com/dendrascience/toolbox/util"
	"github.com/spf13/cobra"
)

// NewCopyCmd creates and returns the copy subcommand for the toolbox CLI.
func NewCopyCmd(app *config.App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy SRC DEST",
		Short: "Copy a directory tree",
		Long: `Copy the directory SRC into DEST/<name of SRC>.

Files are copied in parallel and existing files at the destination are
overwritten. Symlinks are not copied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			dest, err := util.CopyDir(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if app.Verbose {
				fmt.Printf("Copied %s to %s in %s\n", args[0], dest, time.Since(start).Round(time.Millisecond))
			} else {
				fmt.Println(dest)
			}
			return nil
		},
	}
}
