package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"pahkat/internal/config"
	"pahkat/internal/ui"
	"pahkat/pkg/database"
	"pahkat/pkg/repo"
)

var statusTarget string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Manage install receipts",
	Long: `Install receipts tell pahkat which packages the package client has
installed and in which version. A package with a receipt for the version
of its latest release is up to date; any other receipt means an update is
available.

Examples:
  pahkat status list
  pahkat status set "https://pahkat.example/main/packages/speller-sme" 1.2.0
  pahkat status unset "https://pahkat.example/main/packages/speller-sme"`,
}

var statusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List install receipts",
	RunE:  runStatusList,
}

var statusSetCmd = &cobra.Command{
	Use:   "set [key] [version]",
	Short: "Record that a package version is installed",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatusSet,
}

var statusUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove the install receipt of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusUnset,
}

func init() {
	statusSetCmd.Flags().StringVarP(&statusTarget, "target", "t", string(repo.TargetUser), "install target (user or system)")

	statusCmd.AddCommand(statusListCmd)
	statusCmd.AddCommand(statusSetCmd)
	statusCmd.AddCommand(statusUnsetCmd)
}

func openCache() (*database.Store, error) {
	store, err := database.Open(config.CachePath())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open package cache")
	}
	return store, nil
}

func runStatusList(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	receipts, err := store.Receipts()
	if err != nil {
		return zerr.Wrap(err, "failed to read receipts")
	}
	if len(receipts) == 0 {
		ui.MutedMsg("No install receipts recorded")
		return nil
	}

	t := ui.NewTable(os.Stdout, "key", "version", "target", "installed")
	for _, r := range receipts {
		installed := ""
		if !r.InstalledAt.IsZero() {
			installed = r.InstalledAt.Format("2006-01-02 15:04")
		}
		t.AddRow(r.Key.String(), r.Version, string(r.Target), installed)
	}
	return t.Render()
}

func runStatusSet(cmd *cobra.Command, args []string) error {
	key, err := repo.ParseKey(args[0])
	if err != nil {
		return err
	}

	target := repo.InstallTarget(statusTarget)
	if target != repo.TargetUser && target != repo.TargetSystem {
		return zerr.With(zerr.Wrap(ErrInvalidTarget, "cannot record receipt"), "target", statusTarget)
	}

	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.PutReceipts([]database.Receipt{{
		Key:         key,
		Version:     args[1],
		Target:      target,
		InstalledAt: time.Now(),
	}})
	if err != nil {
		return zerr.Wrap(err, "failed to store receipt")
	}

	ui.SuccessMsg("%s %s recorded as installed", key.ID, args[1])
	return nil
}

func runStatusUnset(cmd *cobra.Command, args []string) error {
	key, err := repo.ParseKey(args[0])
	if err != nil {
		return err
	}

	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteReceipt(key); err != nil {
		return zerr.Wrap(err, "failed to delete receipt")
	}

	ui.SuccessMsg("%s recorded as not installed", key.ID)
	return nil
}
