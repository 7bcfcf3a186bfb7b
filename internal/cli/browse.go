package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"pahkat/internal/app"
	"pahkat/internal/config"
	"pahkat/internal/logging"
	"pahkat/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive package browser",
	Long: `Launch the interactive terminal browser.

The browser shows every repository grouped by category or language and
lets you select packages, toggle whole groups, search, and commit the
selection.

Navigation:
  - Use arrow keys or j/k to navigate
  - Press space to toggle a package or group
  - Press c on a repository to switch between category and language
  - Press x to commit the selection
  - Press 1-5 to switch tabs, / to search, ? for help
  - Press q to quit

Diagnostics are written to browse.log in the data directory while the
browser runs.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The terminal belongs to the browser; log to a file instead.
	logFile, err := openBrowseLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: logFile,
	})
	if err != nil {
		return err
	}

	return withSession(ctx, sessionOpts{withHistory: true}, func(s *session) error {
		if s.registry != nil {
			stop := serveMetrics(s.registry, cfg.Metrics.Listen)
			defer stop()
		}

		now := time.Now()
		explicit := cfg.Updates.Due(now)
		s.app.Dispatch(app.RefreshRequested{Explicit: explicit})
		if explicit {
			cfg.Updates.Advance(now)
			if err := saveConfig(); err != nil {
				logger.Warn("failed to save next update check", "error", err)
			}
		}

		return tui.Run(ctx, tui.Options{
			Store:   s.app,
			History: s.history,
			System:  sysInfo,
		})
	})
}

func openBrowseLog() (*os.File, error) {
	if err := config.EnsureDataDir(); err != nil {
		return nil, zerr.Wrap(err, "failed to create data directory")
	}
	f, err := os.OpenFile(filepath.Join(config.DataDir(), "browse.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open log file")
	}
	return f, nil
}
