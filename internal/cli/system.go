package cli

import (
	"os"

	"github.com/spf13/cobra"

	"pahkat/internal/config"
	"pahkat/internal/ui"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show system information",
	Long: `Display the detected platform, the paths pahkat uses and when each
repository was last cached.

Examples:
  pahkat system                     # Show system info
  pahkat system --platform windows  # Show the overridden platform`,
	RunE: runSystem,
}

func runSystem(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	ui.PrintSystemInfo(os.Stdout, sysInfo, configPath, config.DataDir())

	ui.Println("")
	ui.HeaderMsg("Repositories")
	if len(cfg.Repositories) == 0 {
		ui.MutedMsg("  none configured")
		return nil
	}

	cache, err := openCache()
	if err != nil {
		logger.Debug("cache unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	for _, r := range cfg.Repositories {
		updated := "never cached"
		if cache != nil {
			if t, err := cache.GetLastUpdate(r.URL); err == nil && !t.IsZero() {
				updated = "cached " + t.Local().Format("2006-01-02 15:04")
			}
		}
		ui.Println("  %s %s %s", r.URL, ui.Muted.Sprint(r.Channel), ui.Muted.Sprint("("+updated+")"))
	}

	return nil
}
