package cli

import (
	"os"

	"github.com/spf13/cobra"

	"pahkat/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show package information",
	Long: `Display detailed information about a specific package.

Examples:
  pahkat info speller-sme
  pahkat info "https://pahkat.example/main/packages/speller-sme"`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(ctx, sessionOpts{}, func(s *session) error {
		state, err := s.refresh(ctx)
		if err != nil {
			return err
		}

		p, err := resolvePackage(state.Catalog, args[0])
		if err != nil {
			return err
		}

		ui.PrintPackageInfo(os.Stdout, p, state.Selection, cfg.DisplayLanguage())
		return nil
	})
}
