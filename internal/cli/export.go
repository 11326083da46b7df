package cli

import (
	"go-cfimages/internal/config"
	"go-cfimages/internal/images"
	"go-cfimages/internal/service"
	"go-cfimages/internal/storage"
	"go-cfimages/pkg/validation"

	"github.com/spf13/cobra"
)

var exportContainer string

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Back up a stored image to an Azure Blob Storage container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		cfg, err := config.LoadFromEnv()
		if err != nil {
			return err
		}
		if err := cfg.ValidateAzure(); err != nil {
			return err
		}

		blobs, err := storage.NewAzureStorage(cfg.AzureAccount, cfg.AzureKey)
		if err != nil {
			return err
		}
		client := images.NewClient(cfg.BaseURL, cfg.AccountID, cfg.APIToken, cfg.RequestTimeout)
		svc := service.NewImageService(validation.NewUploadValidator(), client, blobs)

		container := exportContainer
		if container == "" {
			container = cfg.AzureContainer
		}

		location, err := svc.Export(cmd.Context(), args[0], container)
		if err != nil {
			return err
		}
		return printExport(cmd.OutOrStdout(), format, args[0], location)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportContainer, "container", "", "target container (defaults to AZURE_BACKUP_CONTAINER)")
	rootCmd.AddCommand(exportCmd)
}
