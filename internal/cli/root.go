package cli

import (
	"fmt"
	"os"

	"go-cfimages/internal/config"
	apperrors "go-cfimages/internal/errors"
	"go-cfimages/internal/images"
	"go-cfimages/internal/service"
	"go-cfimages/pkg/validation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var formatFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "cfimages",
	Short:         "A command-line client for the Cloudflare Images API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Every handled failure prints an Error: line to
// stderr and maps to exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), apperrors.UserMessage(err))
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Details != "" {
			fmt.Fprintln(os.Stderr, appErr.Details)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text", "output format: text or json")
}

// newService loads configuration and wires the dependency graph shared
// by every command. Missing credentials fail here, before any request.
func newService() (service.ImageService, *config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}
	client := images.NewClient(cfg.BaseURL, cfg.AccountID, cfg.APIToken, cfg.RequestTimeout)
	return service.NewImageService(validation.NewUploadValidator(), client, nil), cfg, nil
}
