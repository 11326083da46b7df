package cli

import (
	"go-cfimages/internal/service"
	"go-cfimages/pkg/validation"

	"github.com/spf13/cobra"
)

var (
	uploadID         string
	uploadSignedURLs bool
	uploadMetadata   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a local image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		metadata, err := validation.ParseMetadata(uploadMetadata)
		if err != nil {
			return err
		}

		svc, _, err := newService()
		if err != nil {
			return err
		}

		record, err := svc.Upload(cmd.Context(), service.UploadRequest{
			FilePath:          args[0],
			CustomID:          uploadID,
			RequireSignedURLs: uploadSignedURLs,
			Metadata:          metadata,
		})
		if err != nil {
			return err
		}
		return printUpload(cmd.OutOrStdout(), format, record)
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadID, "id", "", "custom identifier for the image")
	uploadCmd.Flags().BoolVar(&uploadSignedURLs, "signed-urls", false, "require signed URLs for delivery")
	uploadCmd.Flags().StringVar(&uploadMetadata, "metadata", "", "JSON object of string metadata")
	rootCmd.AddCommand(uploadCmd)
}
