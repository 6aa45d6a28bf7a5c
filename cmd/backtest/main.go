package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/app"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/backtest"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/mocks"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// loadBars reads bars from a Parquet file, or generates synthetic ones when path is empty.
func loadBars(path, symbol string, synthetic int, seed int64, interval time.Duration) ([]types.MarketData, error) {
	if path != "" {
		return marketdata.ReadBars(path, marketdata.BarQuery{Symbol: optional.Some(symbol)})
	}

	if synthetic <= 0 {
		return nil, errors.New(errors.ErrCodeMissingParameter, "either --data or --synthetic is required")
	}

	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Symbol = symbol
	generatorConfig.Count = synthetic
	generatorConfig.Interval = interval

	return mocks.NewDataGenerator(seed).Generate(generatorConfig), nil
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	zapLogger, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	bars, err := loadBars(cmd.String("data"), cfg.Symbol, cmd.Int("synthetic"), cmd.Int64("seed"), cfg.Timespan().Duration())
	if err != nil {
		return err
	}

	m, err := app.NewManager(cfg, zapLogger)
	if err != nil {
		return err
	}

	btConfig := backtest.Config{
		Symbol:         cfg.Symbol,
		VotingMethod:   manager.VotingMethod(cfg.VotingMethod),
		InitialBalance: cfg.Backtest.InitialBalance,
		PositionSize:   cfg.Backtest.PositionSize,
		AllowShort:     cfg.Backtest.AllowShort || cmd.Bool("allow-short"),
		Warmup:         cmd.Int("warmup"),
	}
	if cmd.Bool("with-risk") {
		btConfig.Risk = optional.Some(cfg.Risk)
	}

	backtester, err := backtest.NewBacktester(btConfig, m, zapLogger)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(bars),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", cfg.Symbol)),
		progressbar.OptionShowCount(),
	)

	onProcessData := backtest.OnProcessDataCallback(func(current int, _ int) error {
		return bar.Set(current)
	})

	result, err := backtester.Run(ctx, bars, backtest.Callbacks{OnProcessData: &onProcessData})
	if err != nil {
		return err
	}

	_ = bar.Finish()
	fmt.Println()
	fmt.Println(renderResult(result))

	if path := cmd.String("stats-out"); path != "" {
		if err := types.WriteStatsYAML(path, result.Stats); err != nil {
			return err
		}

		zapLogger.Info("Stats written", zap.String("path", path))
	}

	if path := cmd.String("trades-out"); path != "" {
		ledger, err := tracker.New(tracker.NewMemoryStore(result.Trades...), tracker.WithLogger(zapLogger))
		if err != nil {
			return err
		}

		if err := ledger.ExportParquet(path); err != nil {
			return err
		}

		zapLogger.Info("Trades written", zap.String("path", path), zap.Int("trades", len(result.Trades)))
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay historical bars through the configured strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a .env file",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Parquet file written by the market command",
			},
			&cli.IntFlag{
				Name:  "synthetic",
				Usage: "Generate this many bars instead of reading --data",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed of the synthetic data generator",
				Value: 42,
			},
			&cli.IntFlag{
				Name:  "warmup",
				Usage: "Bars seen before the first signal",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "allow-short",
				Usage: "Open SHORT trades on SELL signals",
			},
			&cli.BoolFlag{
				Name:  "with-risk",
				Usage: "Attach stop loss and take profit from the risk config",
			},
			&cli.StringFlag{
				Name:  "stats-out",
				Usage: "Write the statistics to this YAML file",
			},
			&cli.StringFlag{
				Name:  "trades-out",
				Usage: "Write the simulated trades to this Parquet file",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
