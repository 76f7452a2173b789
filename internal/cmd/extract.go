package cmd

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dendrascience/toolbox/archive"
	"github.com/dendrascience/toolbox/internal/config"
	"github.com/dendrascience/toolbox/pending"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates and returns the extract subcommand for the toolbox CLI.
// It extracts one or more archives into a destination directory.
func NewExtractCmd(app *config.App) *cobra.Command {
	var opts config.Extract

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE... DEST",
		Short: "Extract zip archives into a directory",
		Long: `Extract one or more zip archives into DEST.

Each archive is extracted into DEST/<archive name> unless --here is given.
Entries that would land outside the destination abort the extraction.

With --wait, archives that do not exist yet (or are not yet readable as zip
files) are queued and extracted in the order given once they become ready,
until the wait expires or the command is interrupted.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("here") {
				opts.Here = app.Extract.Here
			}
			if !flags.Changed("max-file-size") {
				opts.MaxFileSize = app.Extract.MaxFileSize
			}
			if !flags.Changed("max-total-size") {
				opts.MaxTotalSize = app.Extract.MaxTotalSize
			}
			if !flags.Changed("wait") {
				opts.Wait = app.Extract.Wait
			}
			if !flags.Changed("poll-interval") {
				opts.PollInterval = app.Extract.PollInterval
			}
			if err := config.Validate(config.App{Extract: opts}); err != nil {
				return err
			}
			archives, dest := args[:len(args)-1], args[len(args)-1]
			return runExtract(cmd.Context(), archives, dest, opts, app.Verbose)
		},
	}

	defaults := config.Default().Extract
	cmd.Flags().BoolVar(&opts.Here, "here", defaults.Here, "Extract directly into DEST instead of DEST/<archive name>")
	cmd.Flags().Int64Var(&opts.MaxFileSize, "max-file-size", defaults.MaxFileSize, "Largest single entry in bytes (0 for no limit)")
	cmd.Flags().Int64Var(&opts.MaxTotalSize, "max-total-size", defaults.MaxTotalSize, "Largest total extraction per archive in bytes (0 for no limit)")
	cmd.Flags().DurationVarP(&opts.Wait, "wait", "w", defaults.Wait, "How long to wait for missing archives to appear")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", defaults.PollInterval, "How often to check for waiting archives")

	return cmd
}

// archiveReady reports whether path exists and its zip directory can be
// read, which is not the case while it is still being written.
func archiveReady(path string) bool {
	zr, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return false
	}
	zr.Close()
	return true
}

func runExtract(ctx context.Context, archives []string, dest string, opts config.Extract, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", dest, err)
	}

	var (
		queue    = pending.New()
		errs     []error
		finished = make(map[string]bool)
	)
	for _, src := range archives {
		ready := pending.ConditionFunc(func() bool { return archiveReady(src) })
		deferred, err := queue.WaitFor(ready).ThenExecute(func() {
			finished[src] = true
			if err := extractOne(src, dest, opts, verbose); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", src, err))
			}
		})
		if err != nil {
			return err
		}
		if deferred && verbose {
			log.Printf("Waiting for %s", src)
		}
	}

	if queue.Len() > 0 && opts.Wait > 0 {
		ticker := time.NewTicker(opts.PollInterval)
		defer ticker.Stop()
		deadline := time.NewTimer(opts.Wait)
		defer deadline.Stop()

	wait:
		for queue.Len() > 0 {
			select {
			case <-ctx.Done():
				log.Println("Received interrupt signal, abandoning queued archives")
				break wait
			case <-deadline.C:
				break wait
			case <-ticker.C:
				if _, err := queue.Flush(); err != nil {
					return err
				}
			}
		}
	}

	if n := queue.Len(); n > 0 {
		var missing []string
		for _, src := range archives {
			if !finished[src] {
				missing = append(missing, src)
			}
		}
		errs = append(errs, fmt.Errorf("%d archive(s) never became ready: %s", n, strings.Join(missing, ", ")))
	}
	return errors.Join(errs...)
}

func extractOne(src, dest string, opts config.Extract, verbose bool) error {
	var (
		entries int
		bytes   int64
		start   = time.Now()
	)
	root, err := archive.Extract(src, dest,
		archive.WithNestUnderArchiveName(!opts.Here),
		archive.WithMaxFileSize(opts.MaxFileSize),
		archive.WithMaxTotalSize(opts.MaxTotalSize),
		archive.WithProgress(func(e archive.Entry) {
			entries++
			bytes += e.Size
			if verbose {
				log.Printf("  %s", e.Name)
			}
		}),
	)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %s: %d entries, %s in %s -> %s\n",
		src, entries, humanize.Bytes(uint64(bytes)), time.Since(start).Round(time.Millisecond), root)
	return nil
}
