package cmd

import (
	"log"

	"github.com/dendrascience/toolbox/internal/config"
	"github.com/dendrascience/toolbox/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the toolbox CLI.
// It sets up all subcommands, command groups, and configuration loading.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		app        = config.Default()
	)

	rootCmd := &cobra.Command{
		Use:   "toolbox",
		Short: "toolbox - safe archive extraction and filesystem utilities",
		Long: `toolbox extracts zip archives without letting any entry escape its
destination, creates archives, and copies, counts and verifies directory trees.

Use subcommands to perform different operations:
  - extract: Extract archives, optionally waiting for them to appear
  - zip: Create an archive from a directory or file
  - copy: Copy a directory tree
  - verify: Compare two directory trees by content
  - count: Count files in directory trees
  - seed: Generate a sample tree for testing`,
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.FillFromEnv(cmd.Flags(), log.Printf)
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := config.Validate(loaded); err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				loaded.Verbose, _ = cmd.Flags().GetBool("verbose")
			}
			app = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	groupArchives := "archives"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchives,
		Title: "Archive Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	extractCmd := NewExtractCmd(&app)
	zipCmd := NewZipCmd(&app)
	copyCmd := NewCopyCmd(&app)
	verifyCmd := NewVerifyCmd(&app)
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd(&app)
	versionCmd := NewVersionCmd()

	extractCmd.GroupID = groupArchives
	zipCmd.GroupID = groupArchives
	copyCmd.GroupID = groupUtilities
	verifyCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(zipCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
