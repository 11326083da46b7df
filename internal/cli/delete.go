package cli

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored image by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		svc, _, err := newService()
		if err != nil {
			return err
		}

		deleted, err := svc.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printDelete(cmd.OutOrStdout(), format, deleted)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
