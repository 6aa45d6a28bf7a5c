package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/app"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/reporter"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type env struct {
	cfg     *config.Config
	logger  *logger.Logger
	tracker *tracker.Tracker
}

func load(cmd *cli.Command) (*env, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return nil, err
	}

	t, err := app.NewTracker(cfg, zapLogger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: zapLogger, tracker: t}, nil
}

// renderStats prints one row per period.
func renderStats(periods []types.PeriodStats) string {
	t := table.New().Headers("Period", "Trades", "W/L", "Winrate", "PnL", "PF", "Max DD")

	for _, p := range periods {
		t.Row(
			p.Period,
			fmt.Sprintf("%d", p.TotalTrades),
			fmt.Sprintf("%d/%d", p.WinningTrades, p.LosingTrades),
			fmt.Sprintf("%.1f%%", p.Winrate),
			fmt.Sprintf("%+.2f", p.TotalPnL),
			types.FormatProfitFactor(p.ProfitFactor),
			fmt.Sprintf("%.2f", p.MaxDrawdown),
		)
	}

	return t.Render()
}

// reportAction prints the stats of kind and sends the matching message when --send is set.
func reportAction(kind reporter.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		e, err := load(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		switch kind {
		case reporter.KindDaily:
			summary := e.tracker.DailySummary()
			fmt.Println(renderStats([]types.PeriodStats{summary.Stats}))
			fmt.Printf("Active trades: %d\n", summary.ActiveTrades)
		case reporter.KindWeekly:
			fmt.Println(renderStats(e.tracker.WeeklyReport(int(cmd.Int("periods")))))
		case reporter.KindMonthly:
			fmt.Println(renderStats(e.tracker.MonthlyReport(int(cmd.Int("periods")))))
		}

		if !cmd.Bool("send") {
			return nil
		}

		r := reporter.New(e.tracker, app.NewNotifier(e.cfg, e.logger), e.logger)

		return r.Send(ctx, kind)
	}
}

func overallAction(_ context.Context, cmd *cli.Command) error {
	e, err := load(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	fmt.Println(renderStats([]types.PeriodStats{e.tracker.OverallStats()}))

	return nil
}

func exportAction(_ context.Context, cmd *cli.Command) error {
	e, err := load(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	report, err := e.tracker.GenerateReport(tracker.ReportKind(cmd.String("type")))
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", report.Path)

	if path := cmd.String("parquet"); path != "" {
		if err := e.tracker.ExportParquet(path); err != nil {
			return err
		}

		e.logger.Info("Trades exported", zap.String("path", path))
		fmt.Printf("Trades written to %s\n", path)
	}

	return nil
}

func periodCommand(name, usage string, kind reporter.Kind, periods int) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "send",
			Usage: "Send the report through Telegram, or the log when Telegram is not configured",
		},
	}

	if periods > 0 {
		flags = append(flags, &cli.IntFlag{
			Name:  "periods",
			Usage: "Number of periods to print, newest last",
			Value: periods,
		})
	}

	return &cli.Command{
		Name:   name,
		Usage:  usage,
		Flags:  flags,
		Action: reportAction(kind),
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "report",
		Usage: "Performance reports from the trade ledger",
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
			periodCommand("daily", "Trades entered today", reporter.KindDaily, 0),
			periodCommand("weekly", "Weekly stats, Monday to Sunday", reporter.KindWeekly, tracker.DefaultWeeksBack),
			periodCommand("monthly", "Monthly stats", reporter.KindMonthly, tracker.DefaultMonthsBack),
			{
				Name:   "overall",
				Usage:  "Stats over the whole ledger",
				Action: overallAction,
			},
			{
				Name:  "export",
				Usage: "Write a JSON performance report to the reports directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "weekly, monthly or both",
						Value: string(tracker.ReportBoth),
					},
					&cli.StringFlag{
						Name:  "parquet",
						Usage: "Also export the ledger to this Parquet file",
					},
				},
				Action: exportAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
