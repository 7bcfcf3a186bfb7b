// Package cli implements the command-line interface for pahkat.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pahkat/internal/config"
	"pahkat/internal/logging"
	"pahkat/internal/ui"
	"pahkat/pkg/platform"
)

var (
	// Global flags
	cfgFile      string
	language     string
	platformName string
	archName     string
	yes          bool
	verbose      bool
	noColor      bool

	// Global state
	cfg     *config.Config
	logger  *slog.Logger
	sysInfo platform.Info
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pahkat",
	Short: "Browse Pahkat repositories and select packages to install",
	Long: `Pahkat reads the repositories configured in config.toml, groups their
packages by category or language, and keeps track of the packages you
select for installation or removal.

Repositories are read from the index files maintained by the package
client. Committed selections are recorded in the transaction history.

Examples:
  pahkat list                         # Show every repository and package
  pahkat list --filter language       # Group packages by language
  pahkat select speller-sme           # Mark a package and print the plan
  pahkat select speller-sme --commit  # Mark and commit in one go
  pahkat browse                       # Interactive browser`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp(cmd.Context())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "display language (e.g. en, nb, se)")
	rootCmd.PersistentFlags().StringVar(&platformName, "platform", "", "platform to resolve packages for (macos, windows, linux)")
	rootCmd.PersistentFlags().StringVar(&archName, "arch", "", "architecture to resolve packages for")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(systemCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.ErrorMsg("%s", logging.FormatError(err))
	}
	return err
}

// initializeApp loads the configuration and sets up logging, output and the platform.
func initializeApp(ctx context.Context) error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if language != "" {
		cfg.Interface.Language = language
	}
	if platformName != "" {
		cfg.Interface.Platform = platformName
	}
	if archName != "" {
		cfg.Interface.Arch = archName
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Log.Level = "debug"
	}
	if noColor {
		cfg.Output.Color = false
	}

	// Initialize UI
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	logger, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	detected := platform.Detect(ctx)
	sysInfo, err = detected.Resolve(cfg.Interface.Platform, cfg.Interface.Arch)
	if err != nil {
		return err
	}
	logger.Debug("platform resolved", "platform", sysInfo.Platform, "arch", sysInfo.Arch)

	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pahkat version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("pahkat version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
