package cli

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"pahkat/internal/app"
	"pahkat/internal/config"
	"pahkat/internal/history"
	"pahkat/internal/ui"
)

var (
	historyLimit  int
	revertCommit  bool
	historyMaxAge string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show transaction history",
	Long: `Display the transactions committed with pahkat, newest first.

Examples:
  pahkat history              # Show recent history
  pahkat history -l 20        # Show last 20 transactions
  pahkat history show ID      # Show the packages of one transaction
  pahkat history revert       # Select the reverse of the last transaction`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the packages of a transaction, the most recent by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryShow,
}

var historyRevertCmd = &cobra.Command{
	Use:   "revert [id]",
	Short: "Select the packages that undo a transaction",
	Long: `Replace the selection with the reverse of a transaction: its installs
become uninstalls and its uninstalls become installs. Without an ID the
most recent revertible transaction is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryRevert,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete recorded transactions",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyRevertCmd.Flags().BoolVarP(&revertCommit, "commit", "c", false, "record the reverting transaction after confirmation")
	historyClearCmd.Flags().StringVar(&historyMaxAge, "older-than", "", "only delete entries older than this duration (e.g. 720h)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRevertCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openHistory() (*history.Store, error) {
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open history")
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return zerr.Wrap(err, "failed to read history")
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Transaction History")
	ui.PrintHistory(os.Stdout, entries)

	total, _ := store.Count() //nolint:errcheck
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var entry *history.Entry
	if len(args) == 1 {
		entry, err = store.Get(args[0])
	} else {
		entry, err = store.Last()
	}
	if err != nil {
		return err
	}
	if entry == nil {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Transaction %s", entry.ID)
	ui.MutedMsg("%s", entry.Summary())
	if entry.Error != "" {
		ui.WarningMsg("%s", entry.Error)
	}
	ui.PrintPlan(os.Stdout, entry.Packages, cfg.DisplayLanguage())
	return nil
}

func runHistoryRevert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(ctx, sessionOpts{withHistory: true}, func(s *session) error {
		var (
			entry *history.Entry
			err   error
		)
		if len(args) == 1 {
			entry, err = s.history.Get(args[0])
		} else {
			entry, err = s.history.LastRevertible()
		}
		if len(args) == 0 && errors.Is(err, history.ErrNotFound) {
			ui.MutedMsg("No revertible transactions found")
			return nil
		}
		if err != nil {
			return err
		}
		if !entry.CanRevert() {
			return zerr.With(zerr.Wrap(ErrNotRevertible, "revert failed"), "id", entry.ID)
		}

		if _, err := s.refresh(ctx); err != nil && !errors.Is(err, ErrNoRepositories) {
			return err
		}

		ui.InfoMsg("Reverting %s", entry.Summary())
		s.app.Dispatch(app.ReplaceSelection{Selection: entry.Reverse()})
		if err := s.app.Sync(ctx); err != nil {
			return err
		}

		return planAndCommit(ctx, s, s.app.State(), revertCommit)
	})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if historyMaxAge != "" {
		age, err := time.ParseDuration(historyMaxAge)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid --older-than"), "value", historyMaxAge)
		}
		n, err := store.Prune(age)
		if err != nil {
			return zerr.Wrap(err, "failed to prune history")
		}
		ui.SuccessMsg("Deleted %d entries", n)
		return nil
	}

	if !yes {
		ok, err := ui.Confirm("Delete all recorded transactions?", false)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	if err := store.Clear(); err != nil {
		return zerr.Wrap(err, "failed to clear history")
	}
	ui.SuccessMsg("History cleared")
	return nil
}
