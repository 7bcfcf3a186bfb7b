package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"pahkat/internal/app"
	"pahkat/internal/ui"
	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

var selectCommit bool

var selectCmd = &cobra.Command{
	Use:   "select [package...]",
	Short: "Toggle packages and print the resulting plan",
	Long: `Toggle the selection of one or more packages and print what would be
installed or uninstalled. Packages can be given by ID, by alias from
config.toml, or by their canonical key.

A package that is not installed is selected for installation, an installed
package is selected for removal, and a package that is already selected is
deselected again.

Examples:
  pahkat select speller-sme                   # Show the plan
  pahkat select speller-sme kbd-sme --commit  # Record the transaction
  pahkat select "https://pahkat.example/main/packages/speller-sme?platform=macos"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().BoolVarP(&selectCommit, "commit", "c", false, "record the transaction after confirmation")
}

func runSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(ctx, sessionOpts{withHistory: selectCommit}, func(s *session) error {
		state, err := s.refresh(ctx)
		if err != nil {
			return err
		}

		for _, arg := range cfg.ResolveAliases(args) {
			p, err := resolvePackage(state.Catalog, arg)
			if err != nil {
				return err
			}
			s.app.Dispatch(app.TogglePackage{Key: p.Key})
		}

		if err := s.app.Sync(ctx); err != nil {
			return err
		}
		state = s.app.State()
		if state.Err != nil {
			return state.Err
		}

		return planAndCommit(ctx, s, state, selectCommit)
	})
}

// resolvePackage finds the package named by arg: a canonical key, or a
// package ID looked up in every repository. Aliases may expand to either.
func resolvePackage(c *outline.Catalog, arg string) (outline.Package, error) {
	arg = cfg.ResolveAlias(arg)
	if strings.Contains(arg, "://") {
		key, err := repo.ParseKey(arg)
		if err != nil {
			return outline.Package{}, err
		}
		if p, ok := c.Package(key); ok {
			return p, nil
		}
		if p, ok := c.Lookup(key.RepositoryURL, key.ID); ok {
			return p, nil
		}
		return outline.Package{}, zerr.With(zerr.Wrap(ErrPackageNotFound, "unknown package key"), "key", arg)
	}

	id := arg
	var matches []outline.Package
	for _, o := range c.Outlines() {
		if p, ok := o.Find(id); ok {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return outline.Package{}, zerr.With(zerr.Wrap(ErrPackageNotFound, "no repository provides the package"), "id", id)
	case 1:
		return matches[0], nil
	}

	if yes {
		logger.Debug("package found in several repositories, taking the first", "id", id, "count", len(matches))
		return matches[0], nil
	}
	return ui.SelectPackage(matches, fmt.Sprintf("%s is available from %d repositories", id, len(matches)), cfg.DisplayLanguage())
}

// planAndCommit prints the selection and optionally commits it.
func planAndCommit(ctx context.Context, s *session, state app.State, commit bool) error {
	ui.HeaderMsg("Selection")
	ui.PrintPlan(os.Stdout, state.Selection.Values(), cfg.DisplayLanguage())
	for _, key := range state.Orphaned {
		ui.WarningMsg("%s is no longer provided by its repository", key.ID)
	}

	if !state.Primary.Enabled {
		return nil
	}
	if !commit {
		ui.MutedMsg("\nRun with --commit to %s", state.Primary.Text)
		return nil
	}

	if !yes {
		ok, err := ui.Confirm(capitalize(state.Primary.Text)+"?", true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	return commitSelection(ctx, s)
}

// commitSelection commits the current selection and waits for it to be recorded.
func commitSelection(ctx context.Context, s *session) error {
	s.app.Dispatch(app.Commit{})
	if err := s.app.Sync(ctx); err != nil {
		return err
	}

	state, err := s.app.WaitFor(ctx, func(st app.State) bool {
		return st.LastCommit != nil || st.Err != nil
	})
	if err != nil {
		return err
	}
	if state.Err != nil {
		return state.Err
	}

	installs, uninstalls := state.LastCommit.Counts()
	ui.SuccessMsg("Recorded transaction %s (%d to install, %d to uninstall)", state.LastCommit.ID, installs, uninstalls)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
