package cli

import (
	"github.com/spf13/cobra"
)

var (
	listLimit int
	listPage  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored images (one page per invocation)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		svc, _, err := newService()
		if err != nil {
			return err
		}

		list, err := svc.List(cmd.Context(), listLimit, listPage)
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), format, list)
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "images per page")
	listCmd.Flags().IntVar(&listPage, "page", 0, "page number (vendor default when omitted)")
	rootCmd.AddCommand(listCmd)
}
