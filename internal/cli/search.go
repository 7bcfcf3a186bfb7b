package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pahkat/internal/ui"
	"pahkat/pkg/database"
)

var (
	searchInstalled bool
	searchLimit     int
	searchRepo      string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for packages",
	Long: `Search package names, IDs, descriptions and tags across every loaded
repository. Results are ranked by TF-IDF relevance with exact name matches
first.

Examples:
  pahkat search speller                 # Search all repositories
  pahkat search --installed keyboard    # Installed packages only
  pahkat search -l 10 sami              # Limit to 10 results`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchInstalled, "installed", false, "search installed packages only")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "limit results (0 = default 50)")
	searchCmd.Flags().StringVarP(&searchRepo, "repo", "r", "", "only search the repository with this URL")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	return withSession(ctx, sessionOpts{}, func(s *session) error {
		state, err := s.refresh(ctx)
		if err != nil {
			return err
		}

		lang := cfg.DisplayLanguage()
		idx := database.IndexCatalog(state.Catalog, lang)
		logger.Debug("catalog indexed", "packages", idx.Size())

		opts := database.DefaultSearchOptions()
		opts.InstalledOnly = searchInstalled
		opts.RepositoryURL = strings.TrimRight(searchRepo, "/")
		if searchLimit > 0 {
			opts.Limit = searchLimit
		}

		ui.InfoMsg("Searching for '%s'...", query)
		ui.PrintSearchResults(os.Stdout, idx.Search(query, opts), state.Selection, lang)
		return nil
	})
}
