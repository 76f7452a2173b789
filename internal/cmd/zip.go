package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/toolbox/archive"
	"github.com/dendrascience/toolbox/internal/config"
	"github.com/dendrascience/toolbox/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewZipCmd creates and returns the zip subcommand for the toolbox CLI.
// It archives a directory tree, or a single file, into a zip archive.
func NewZipCmd(app *config.App) *cobra.Command {
	var (
		useLZ4 bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "zip SRC [DEST]",
		Short: "Create a zip archive from a directory or file",
		Long: `Create a zip archive from SRC.

When SRC is a directory every file and directory beneath it is stored with
its path relative to SRC; DEST defaults to SRC.zip. When SRC is a single
file it is stored next to itself as <name>.zip and DEST is not accepted.

--lz4 stores entries with LZ4 instead of deflate. Such archives can only be
read back by toolbox.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lz4") {
				useLZ4 = app.Compress.LZ4
			}
			var opts []archive.CompressOption
			if useLZ4 {
				opts = append(opts, archive.WithLZ4())
			}
			return runZip(args, opts, dryRun, app.Verbose)
		},
	}

	cmd.Flags().BoolVar(&useLZ4, "lz4", false, "Compress entries with LZ4")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")

	return cmd
}

func runZip(args []string, opts []archive.CompressOption, dryRun, verbose bool) error {
	src := args[0]
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		if len(args) > 1 {
			return fmt.Errorf("DEST is not accepted when zipping a single file")
		}
		if dryRun {
			fmt.Printf("Would archive %s\n", src)
			return nil
		}
		dest, err := archive.CompressFile(src, opts...)
		if err != nil {
			return err
		}
		return report(dest)
	}

	dest := filepath.Clean(src) + ".zip"
	if len(args) > 1 {
		dest = args[1]
	}
	if verbose || dryRun {
		count, _, err := util.CountSubfile(src, int(^uint(0)>>1))
		if err != nil {
			return err
		}
		fmt.Printf("Archiving %d files from %s into %s\n", count, src, dest)
	}
	if dryRun {
		fmt.Println("DRY RUN - no changes will be made")
		return nil
	}
	if err := archive.CompressDirectoryToDest(src, dest, opts...); err != nil {
		return err
	}
	return report(dest)
}

func report(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s)\n", dest, humanize.Bytes(uint64(info.Size())))
	return nil
}
