package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/app"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// loadConfig reads the config and applies the command line overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("auto-trade") {
		cfg.Trading.AutoTrade = cmd.Bool("auto-trade")
	}

	if cmd.IsSet("duration") {
		cfg.Trading.SessionDuration = cmd.Duration("duration")
	}

	if cmd.IsSet("check-interval") {
		cfg.Trading.CheckInterval = cmd.Duration("check-interval")
	}

	return cfg, nil
}

func buildApp(cmd *cli.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build trading system: %w", err)
	}

	return a, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Logger.Sync()
	defer a.Close()

	if err := a.Start(); err != nil {
		return err
	}

	// Setup callbacks
	onAnalysis := trading.OnAnalysisCallback(func(analysis trading.Analysis) {
		fmt.Println(renderAnalysis(analysis))
	})
	onTradeOpened := trading.OnTradeOpenedCallback(func(tradeID string, analysis trading.Analysis) {
		fmt.Printf("Trade opened: %s %s @ %.2f\n", tradeID, analysis.Signal, analysis.CurrentPrice)
	})
	onTradesClosed := trading.OnTradesClosedCallback(func(tradeIDs []string) {
		for _, id := range tradeIDs {
			fmt.Printf("Trade closed: %s\n", id)
		}
	})
	onError := trading.OnErrorCallback(func(err error) {
		fmt.Printf("Error: %v\n", err)
	})

	callbacks := trading.SessionCallbacks{
		OnAnalysis:     &onAnalysis,
		OnTradeOpened:  &onTradeOpened,
		OnTradesClosed: &onTradesClosed,
		OnError:        &onError,
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nReceived interrupt signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg := a.Config
	a.Logger.Info("Starting trading session",
		zap.String("symbol", cfg.Symbol),
		zap.String("interval", cfg.Interval),
		zap.Duration("check_interval", cfg.Trading.CheckInterval),
		zap.Duration("duration", cfg.Trading.SessionDuration),
		zap.Bool("auto_trade", cfg.Trading.AutoTrade),
	)

	result := a.System.RunSession(ctx, cfg.Trading.SessionDuration, cfg.Trading.CheckInterval, callbacks)
	fmt.Println(renderSession(result))

	// the summary goes out even when the session was interrupted
	if err := a.Reporter.SendDailySummary(context.Background()); err != nil {
		a.Logger.Warn("Failed to send daily summary", zap.Error(err))
	}

	return result.Err
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Logger.Sync()
	defer a.Close()

	analysis, err := a.System.Analyze(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(analysis); err != nil {
			return err
		}
	} else {
		fmt.Println(renderAnalysis(analysis))
	}

	if cmd.Bool("send-risk") && analysis.Risk.IsSome() {
		if err := a.Reporter.SendRiskReport(ctx, analysis.Risk.Unwrap()); err != nil {
			return err
		}
	}

	if !cmd.Bool("execute") {
		return nil
	}

	tradeID, err := a.System.ExecuteTrade(ctx, analysis)
	if err != nil {
		return err
	}

	if tradeID == "" {
		fmt.Println("No trade opened")
	} else {
		fmt.Printf("Trade opened: %s\n", tradeID)
	}

	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Logger.Sync()
	defer a.Close()

	closed, err := a.System.CheckLevels(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d open, %d closed %v\n", len(a.System.Monitor().ActiveTrades()), len(closed), closed)

	return nil
}

func closeAllAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Logger.Sync()
	defer a.Close()

	closed, err := a.System.CloseAllTrades(ctx, cmd.String("reason"))
	if err != nil {
		return err
	}

	fmt.Printf("Closed %d trades %v\n", len(closed), closed)

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "trading",
		Usage: "Gold signal bot: analyse XAUUSD, open and monitor trades",
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
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a trading session until the duration elapses or the process is interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "auto-trade",
						Usage: "Open trades on actionable signals",
					},
					&cli.DurationFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Session length, 0 runs until interrupted",
					},
					&cli.DurationFlag{
						Name:    "check-interval",
						Aliases: []string{"i"},
						Usage:   "Time between two analyses",
					},
				},
				Action: runAction,
			},
			{
				Name:  "analyze",
				Usage: "Run one analysis and print the combined signal",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the analysis as JSON",
					},
					&cli.BoolFlag{
						Name:  "execute",
						Usage: "Open a trade when the signal is actionable",
					},
					&cli.BoolFlag{
						Name:  "send-risk",
						Usage: "Send the risk report of an actionable signal",
					},
				},
				Action: analyzeAction,
			},
			{
				Name:   "check",
				Usage:  "Check open trades against stop loss and take profit once",
				Action: checkAction,
			},
			{
				Name:  "close-all",
				Usage: "Close every open trade at the current price",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Exit reason recorded on the trades",
						Value: "Manual Close",
					},
				},
				Action: closeAllAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
