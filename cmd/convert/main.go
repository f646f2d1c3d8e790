package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock-analyst-agent/internal/config"
	"stock-analyst-agent/internal/domain"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	var reportID string

	rootCmd := &cobra.Command{
		Use:   "convert [ts_code]",
		Short: "Render a cached analysis report to PDF",
		Long: "Renders a cached analysis report to PDF using wkhtmltopdf.\n" +
			"Without arguments the most recent report is converted; pass a\n" +
			"stock code (e.g. 600519.SH) to convert its latest report, or\n" +
			"--report to convert a specific cached file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := config.NewContainer()
			ctx := cmd.Context()

			if err := container.ExportService.CheckRenderer(); err != nil {
				return fmt.Errorf("wkhtmltopdf is not available: %w", err)
			}
			if err := container.ExportService.EnsureFonts(ctx); err != nil {
				container.Logger.Warn("Font download failed, PDF may use fallback fonts", "error", err)
			}

			id := reportID
			if id == "" {
				tsCode := ""
				if len(args) == 1 {
					tsCode = args[0]
					if !domain.ValidTSCode(tsCode) {
						return fmt.Errorf("invalid stock code %q, expected e.g. 600519.SH", tsCode)
					}
				}
				latest, err := container.ReportStore.Latest(tsCode)
				if err != nil {
					return fmt.Errorf("no cached report found: %w", err)
				}
				id = latest.ID
			}

			result, err := container.ExportService.ExportReport(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&reportID, "report", "", "cached report ID to convert (filename without .csv)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
