package main

import (
	"encoding/json"
	"fmt"
	"os"

	"quotelens/app"
	"quotelens/domain/quote"
	"quotelens/internal/config"
	"quotelens/ui"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quotelens",
		Short: "Discount acceptance analytics for logistics quotes",
	}

	rootCmd.AddCommand(
		newProcessCmd(),
		newSummaryCmd(),
		newReportCmd(),
		newRecommendCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService() *app.QuoteService {
	cfg := config.Load()
	return app.NewQuoteService(cfg.LLM, cfg.Thresholds)
}

func loadService(path string) (*app.QuoteService, error) {
	service := newService()
	if _, err := service.LoadDatasetFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", path, err)
	}
	return service, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newProcessCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Run the ingestion pipeline and export the cleaned dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := loadService(args[0])
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return service.ExportCSV(out)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output CSV path (default stdout)")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [file]",
		Short: "Print the dataset overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := loadService(args[0])
			if err != nil {
				return err
			}
			summary, err := service.Summary()
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [file]",
		Short: "Print the full analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := loadService(args[0])
			if err != nil {
				return err
			}
			report, err := service.Report()
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}

func newRecommendCmd() *cobra.Command {
	var q quote.Query

	cmd := &cobra.Command{
		Use:   "recommend [file]",
		Short: "Recommend a discount from historical acceptance patterns",
		Long: `Recommend a discount for a quote scenario from historical acceptance patterns.

Example: quotelens recommend quotes.csv --customer CUST001 --lane "New York-NY to Los Angeles-CA" --shipment AIR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := loadService(args[0])
			if err != nil {
				return err
			}
			rec, err := service.Recommend(q)
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}

	cmd.Flags().StringVar(&q.CustomerID, "customer", "", "Customer identifier")
	cmd.Flags().StringVar(&q.LanePair, "lane", "", "Lane pair (city_state-city_state or \"City-ST to City-ST\")")
	cmd.Flags().StringVar(&q.ShipmentType, "shipment", "", "Shipment type (AIR, OFR FCL, OFR LCL)")
	cmd.Flags().StringVar(&q.CommodityType, "commodity", "", "Commodity type")
	cmd.Flags().Float64Var(&q.MinDiscount, "min", 0, "Minimum acceptable discount percent")
	cmd.Flags().Float64Var(&q.MaxDiscount, "max", 0, "Maximum acceptable discount percent")

	return cmd
}

func newServeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			service := app.NewQuoteService(cfg.LLM, cfg.Thresholds)

			if file != "" {
				if _, err := service.LoadDatasetFromFile(file); err != nil {
					return fmt.Errorf("failed to preload %s: %w", file, err)
				}
			}

			return ui.NewApp(service).Start(cfg.Server.Port)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Quote dataset to preload (CSV or XLSX)")

	return cmd
}
