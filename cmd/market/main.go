package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "-"
}

// renderProviders lists every provider with its capabilities.
func renderProviders() string {
	t := table.New().Headers("Name", "Provider", "Auth", "Download", "Bars", "Price", "Description")

	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			continue
		}

		t.Row(info.Name, info.DisplayName, yesNo(info.RequiresAuth), yesNo(info.SupportsDownload),
			yesNo(info.SupportsBars), yesNo(info.SupportsPrice), info.Description)
	}

	return t.Render()
}

// downloadAction is the core logic executed by the CLI command.
// It parses arguments, sets up the market data client, and starts the download process.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	// Retrieve flag values from the context
	ticker := cmd.String("ticker")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	dataPath := cmd.String("data")

	if err := godotenv.Load(cmd.String("env")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", cmd.String("env"), err)
	}

	providerType, err := downloadProvider(cmd.String("provider"))
	if err != nil {
		return err
	}

	interval, err := marketdata.ParseTimespan(cmd.String("interval"))
	if err != nil {
		return err
	}

	zapLogger, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	// Create client configuration
	clientConfig := marketdata.ClientConfig{
		ProviderType:  providerType,
		WriterType:    marketdata.WriterDuckDB,
		DataPath:      dataPath,
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}

	// Polygon draws its own progress bar, Binance only reports pages.
	var onProgress provider.OnDownloadProgress
	if providerType == marketdata.ProviderBinance {
		bar := progressbar.Default(-1)
		onProgress = func(_, _ float64, message string) {
			bar.Describe(message)
			_ = bar.Add(1)
		}
	}

	// Create market data client
	client, err := marketdata.NewClient(clientConfig, onProgress, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	params := marketdata.DownloadParams{
		Ticker:     ticker,
		StartDate:  startDate,
		EndDate:    endDate,
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
	}

	zapLogger.Info("Starting download",
		zap.String("ticker", ticker),
		zap.String("start", startDate.Format(time.DateOnly)),
		zap.String("end", endDate.Format(time.DateOnly)),
		zap.String("provider", string(providerType)),
		zap.String("interval", string(interval)),
	)

	path, err := client.Download(ctx, params)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Printf("Downloaded to %s\n", path)

	return nil
}

func providersAction(_ context.Context, _ *cli.Command) error {
	fmt.Println(renderProviders())

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := marketdata.GetDownloadConfigSchema(cmd.String("provider"))
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func newProviderFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "provider",
		Aliases: []string{"p"},
		Usage:   fmt.Sprintf("Data provider to use (e.g., %s, %s)", MarketProviderPolygon, MarketProviderBinance),
		Value:   MarketProviderBinance,
	}
}

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:  "market",
		Usage: "Download historical XAUUSD bars and inspect market data providers",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download historical bars into a Parquet file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "ticker",
						Aliases: []string{"t"},
						Usage:   "Symbol to download, mapped to the provider's own ticker",
						Value:   "XAUUSD",
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{time.DateOnly},
						},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{time.DateOnly},
						},
					},
					newProviderFlag(),
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Bar interval, e.g. 1m, 15m, 1h, 1d",
						Value:   "1h",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to the data output directory",
						Value:   "data",
					},
					&cli.StringFlag{
						Name:  "env",
						Usage: "Path to a .env file holding POLYGON_API_KEY",
						Value: ".env",
					},
				},
				Action: downloadAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported providers",
				Action: providersAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of a provider's download config",
				Flags:  []cli.Flag{newProviderFlag()},
				Action: schemaAction,
			},
		},
	}

	// Run the CLI application
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
