package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dendrascience/toolbox/archive"
	"github.com/dendrascience/toolbox/internal/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewSeedCmd creates and returns the seed subcommand for the toolbox CLI.
// It generates a tree of small files for exercising the other commands.
func NewSeedCmd(app *config.App) *cobra.Command {
	var (
		outputPath string
		fileCount  int
		buckets    int
		zipPath    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample directory tree",
		Long: `Generate a directory tree of small files for trying out toolbox.

Each file is named after a fresh UUID and holds that UUID as its content.
Files are spread across numbered bucket directories chosen by hashing the
UUID, and every tenth file goes one level deeper. With --zip the generated
tree is also archived to the given path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileCount < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			if buckets < 1 {
				return fmt.Errorf("--buckets must be at least 1")
			}
			if err := runSeed(outputPath, fileCount, buckets, app.Verbose); err != nil {
				return err
			}
			if zipPath == "" {
				return nil
			}
			var opts []archive.CompressOption
			if app.Compress.LZ4 {
				opts = append(opts, archive.WithLZ4())
			}
			if err := archive.CompressDirectoryToDest(outputPath, zipPath, opts...); err != nil {
				return err
			}
			return report(zipPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().IntVar(&buckets, "buckets", 16, "Number of bucket directories")
	cmd.Flags().StringVar(&zipPath, "zip", "", "Also archive the generated tree to this path")

	cmd.MarkFlagRequired("output")

	return cmd
}

func bucketFor(id string, buckets int) string {
	b := int(colorhash.HashString(id)) % buckets
	if b < 0 {
		b = -b
	}
	return fmt.Sprintf("%03d", b)
}

func runSeed(outputPath string, fileCount, buckets int, verbose bool) error {
	if verbose {
		log.Printf("Generating %d files in %s", fileCount, outputPath)
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dirFileCounts := make(map[string]int)
	for i := range fileCount {
		id := uuid.New().String()
		dir := filepath.Join(outputPath, bucketFor(id, buckets))
		if i%10 == 9 {
			dir = filepath.Join(dir, id[:2])
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, id+".txt"), []byte(id+"\n"), 0o644); err != nil {
			return err
		}
		dirFileCounts[dir]++

		if verbose && (i+1)%1000 == 0 {
			log.Printf("Created %d/%d files...", i+1, fileCount)
		}
	}

	fmt.Printf("Created %d files across %d directories in %s\n", fileCount, len(dirFileCounts), outputPath)
	return nil
}
