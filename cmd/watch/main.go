package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/app"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func watchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	// stdout belongs to the dashboard
	a, err := app.New(cfg, logger.NewNopLogger())
	if err != nil {
		return fmt.Errorf("failed to build trading system: %w", err)
	}
	defer a.Close()

	refresh := cmd.Duration("refresh")
	if refresh <= 0 {
		refresh = cfg.Trading.CheckInterval
	}

	p := tea.NewProgram(NewModel(a.System, cfg.Symbol, cfg.Interval, refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "watch",
		Usage: "Live dashboard of the combined XAUUSD signal",
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
			&cli.DurationFlag{
				Name:    "refresh",
				Aliases: []string{"r"},
				Usage:   "Time between two analyses. Defaults to trading.check_interval",
				Value:   time.Minute,
			},
		},
		Action: watchAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
