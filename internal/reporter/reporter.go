// Package reporter turns ledger statistics into notification messages.
package reporter

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/notify"
	"go.uber.org/zap"
)

type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

var _ monitor.TradeListener = (*Reporter)(nil)

// Reporter sends summaries and trade alerts through a Notifier.
type Reporter struct {
	tracker  *tracker.Tracker
	notifier notify.Notifier
	logger   *logger.Logger
}

func New(t *tracker.Tracker, notifier notify.Notifier, log *logger.Logger) *Reporter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Reporter{tracker: t, notifier: notifier, logger: log}
}

func (r *Reporter) now() time.Time {
	return r.tracker.Now()
}

func (r *Reporter) send(ctx context.Context, what, message string) error {
	if err := r.notifier.Send(ctx, message); err != nil {
		r.logger.Error("Failed to send notification", zap.String("kind", what), zap.Error(err))

		return err
	}

	r.logger.Info("Sent notification", zap.String("kind", what))

	return nil
}

// Send dispatches the report of the given kind for the current period.
func (r *Reporter) Send(ctx context.Context, kind Kind) error {
	return r.SendFor(ctx, kind, r.now())
}

// SendFor dispatches the report of the given kind for the period containing at:
// the day, the week ending with it, or the month ending with it.
func (r *Reporter) SendFor(ctx context.Context, kind Kind, at time.Time) error {
	switch kind {
	case KindDaily:
		return r.send(ctx, string(KindDaily), FormatDailySummary(r.tracker.DailySummaryFor(at), r.now()))
	case KindWeekly:
		return r.send(ctx, string(KindWeekly), FormatWeeklyReport(r.tracker.WeeklyReportAt(at, reportWeeks), r.now()))
	case KindMonthly:
		return r.send(ctx, string(KindMonthly), FormatMonthlyReport(r.tracker.MonthlyReportAt(at, reportMonths), r.now()))
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown report kind %q", kind)
	}
}

func (r *Reporter) SendDailySummary(ctx context.Context) error {
	return r.SendFor(ctx, KindDaily, r.now())
}

func (r *Reporter) SendWeeklyReport(ctx context.Context) error {
	return r.SendFor(ctx, KindWeekly, r.now())
}

func (r *Reporter) SendMonthlyReport(ctx context.Context) error {
	return r.SendFor(ctx, KindMonthly, r.now())
}

func (r *Reporter) SendRiskReport(ctx context.Context, metrics risk.Metrics) error {
	return r.send(ctx, "risk", risk.FormatReport(metrics))
}

func (r *Reporter) OnTradeOpened(ctx context.Context, trade types.TradeRecord) error {
	return r.send(ctx, "trade_open", FormatTradeOpened(trade, r.now()))
}

func (r *Reporter) OnTradeClosed(ctx context.Context, trade types.TradeRecord, reason string) error {
	return r.send(ctx, "trade_close", FormatTradeClosed(trade, reason, r.now()))
}
