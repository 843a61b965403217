package cmd

import (
	"github.com/spf13/cobra"
)

// infosCmd represents the infos command
var infosCmd = &cobra.Command{
	Use:   "infos",
	Short: "Show account information",
	Long:  `Call Infos.getInfos to check the credentials and print the account information.`,
	Args:  cobra.NoArgs,
	RunE:  runInfos,
}

func init() {
	rootCmd.AddCommand(infosCmd)
}

func runInfos(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	logger.Info().Str("url", client.APIURL()).Bool("verify_peer", client.VerifyPeer()).Msg("Fetching account information")

	ctx, stop := signalContext(cmd)
	defer stop()

	resp, err := client.Infos(ctx)
	if err != nil {
		return describeCallError(err)
	}
	return writeJSON(cmd.OutOrStdout(), resp.Payload())
}
