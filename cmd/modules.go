package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sellsyctl/sellsy"
)

// modulesCmd represents the modules command
var modulesCmd = &cobra.Command{
	Use:         "modules",
	Short:       "List known API modules",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range sellsy.Modules() {
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
