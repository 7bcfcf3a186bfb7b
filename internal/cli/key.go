package cli

import (
	"os"

	"github.com/spf13/cobra"

	"pahkat/internal/ui"
	"pahkat/pkg/repo"
)

var keyParams repo.Params

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Parse and format package keys",
	Long: `Package keys identify a package in a repository, optionally narrowed
to a platform, architecture, version or channel:

  https://pahkat.example/main/packages/speller-sme?platform=macos

Examples:
  pahkat key parse "https://pahkat.example/main/packages/speller-sme?platform=macos"
  pahkat key format https://pahkat.example/main speller-sme --platform macos`,
}

var keyParseCmd = &cobra.Command{
	Use:   "parse [key]",
	Short: "Show the parts of a package key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeyParse,
}

var keyFormatCmd = &cobra.Command{
	Use:   "format [repository] [id]",
	Short: "Build the canonical key of a package",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeyFormat,
}

func init() {
	keyFormatCmd.Flags().StringVar(&keyParams.Platform, "platform", "", "platform parameter")
	keyFormatCmd.Flags().StringVar(&keyParams.Arch, "arch", "", "architecture parameter")
	keyFormatCmd.Flags().StringVar(&keyParams.Version, "version", "", "version parameter")
	keyFormatCmd.Flags().StringVar(&keyParams.Channel, "channel", "", "channel parameter")

	keyCmd.AddCommand(keyParseCmd)
	keyCmd.AddCommand(keyFormatCmd)
}

func runKeyParse(cmd *cobra.Command, args []string) error {
	key, err := repo.ParseKey(args[0])
	if err != nil {
		return err
	}

	t := ui.NewTable(os.Stdout, "field", "value")
	t.AddRow("repository", key.RepositoryURL)
	t.AddRow("id", key.ID)
	t.AddRow("platform", key.Params.Platform)
	t.AddRow("arch", key.Params.Arch)
	t.AddRow("version", key.Params.Version)
	t.AddRow("channel", key.Params.Channel)
	t.AddRow("canonical", key.String())
	return t.Render()
}

func runKeyFormat(cmd *cobra.Command, args []string) error {
	key := repo.NewKey(args[0], args[1], keyParams)
	ui.Println("%s", key.String())
	return nil
}
