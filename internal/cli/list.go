package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"pahkat/internal/app"
	"pahkat/internal/ui"
	"pahkat/pkg/outline"
)

var (
	listRepo   string
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories and their packages",
	Long: `List the packages of every configured repository, grouped by category
or by language.

Examples:
  pahkat list                                    # All repositories
  pahkat list -f language                        # Group by language
  pahkat list -r https://pahkat.example/main     # A single repository`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listRepo, "repo", "r", "", "only list the repository with this URL")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "group by category or language")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var filter outline.Filter
	if listFilter != "" {
		var err error
		if filter, err = outline.ParseFilter(listFilter); err != nil {
			return err
		}
	}

	return withSession(ctx, sessionOpts{}, func(s *session) error {
		state, err := s.refresh(ctx)
		if err != nil {
			return err
		}

		if filter != "" {
			for _, r := range state.Repositories {
				s.app.Dispatch(app.SetFilter{Repo: r.URL(), Filter: filter})
			}
			if err := s.app.Sync(ctx); err != nil {
				return err
			}
			state = s.app.State()
		}

		lang := cfg.DisplayLanguage()
		if listRepo != "" {
			o, ok := state.Catalog.Outline(strings.TrimRight(listRepo, "/"))
			if !ok {
				o, ok = state.Catalog.Outline(listRepo)
			}
			if !ok {
				return zerr.With(zerr.Wrap(ErrNoRepositories, "repository not loaded"), "url", listRepo)
			}
			ui.PrintOutline(os.Stdout, o, state.Selection, lang)
			ui.MutedMsg("\nTotal: %d packages", o.Len())
			return nil
		}

		ui.PrintCatalog(os.Stdout, state.Catalog, state.Selection, lang)
		ui.MutedMsg("\nTotal: %d packages in %d repositories", state.Catalog.Len(), len(state.Repositories))
		return nil
	})
}
