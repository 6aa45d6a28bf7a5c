package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultWeeksBack  = 4
	DefaultMonthsBack = 6
)

type ReportKind string

const (
	ReportWeekly  ReportKind = "weekly"
	ReportMonthly ReportKind = "monthly"
	ReportBoth    ReportKind = "both"
)

// Report is the document written by GenerateReport.
type Report struct {
	GeneratedAt    time.Time           `json:"generated_at"`
	ReportType     ReportKind          `json:"report_type"`
	WeeklyReports  []types.PeriodStats `json:"weekly_reports,omitempty"`
	MonthlyReports []types.PeriodStats `json:"monthly_reports,omitempty"`
	OverallStats   types.PeriodStats   `json:"overall_stats"`
	// Path is where the report was written.
	Path string `json:"-"`
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7

	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month at 00:00.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// endOfPeriod is the last instant before next, so that consecutive periods
// leave no gap for sub-second entry times.
func endOfPeriod(next time.Time) time.Time {
	return next.Add(-time.Nanosecond)
}

// WeeklyReport returns stats for the current week and the n-1 weeks before it,
// most recent first.
func (t *Tracker) WeeklyReport(n int) []types.PeriodStats {
	return t.WeeklyReportAt(t.now(), n)
}

// WeeklyReportAt is WeeklyReport with the week containing at as the most recent one.
func (t *Tracker) WeeklyReportAt(at time.Time, n int) []types.PeriodStats {
	if n <= 0 {
		n = DefaultWeeksBack
	}

	current := WeekStart(at)
	reports := make([]types.PeriodStats, 0, n)

	for i := 0; i < n; i++ {
		start := current.AddDate(0, 0, -7*i)
		end := endOfPeriod(start.AddDate(0, 0, 7))
		label := fmt.Sprintf("Week %s - %s", start.Format("02/01/2006"), end.Format("02/01/2006"))

		reports = append(reports, t.StatsForPeriod(label, start, end))
	}

	return reports
}

// MonthlyReport returns stats for the current month and the n-1 months before it,
// most recent first.
func (t *Tracker) MonthlyReport(n int) []types.PeriodStats {
	return t.MonthlyReportAt(t.now(), n)
}

// MonthlyReportAt is MonthlyReport with the month containing at as the most recent one.
func (t *Tracker) MonthlyReportAt(at time.Time, n int) []types.PeriodStats {
	if n <= 0 {
		n = DefaultMonthsBack
	}

	current := MonthStart(at)
	reports := make([]types.PeriodStats, 0, n)

	for i := 0; i < n; i++ {
		start := current.AddDate(0, -i, 0)
		end := endOfPeriod(start.AddDate(0, 1, 0))

		reports = append(reports, t.StatsForPeriod(start.Format("January 2006"), start, end))
	}

	return reports
}

// OverallStats covers every CLOSED trade, from the earliest to the latest entry.
func (t *Tracker) OverallStats() types.PeriodStats {
	closed := t.ClosedTrades()
	if len(closed) == 0 {
		return CalculatePeriodStats(nil, "Overall", time.Time{}, time.Time{})
	}

	ordered := sortedByEntry(closed)

	return CalculatePeriodStats(ordered, "Overall", ordered[0].EntryTime, ordered[len(ordered)-1].EntryTime)
}

// DailySummary returns the stats of today's closed trades and the open trade count.
func (t *Tracker) DailySummary() types.DailySummary {
	return t.DailySummaryFor(t.now())
}

// DailySummaryFor returns the stats of the closed trades entered on day's date.
// ActiveTrades is always the current open trade count.
func (t *Tracker) DailySummaryFor(day time.Time) types.DailySummary {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := endOfPeriod(start.AddDate(0, 0, 1))
	date := start.Format("2006-01-02")

	return types.DailySummary{
		Date:         date,
		Stats:        t.StatsForPeriod(date, start, end),
		ActiveTrades: len(t.OpenTrades()),
	}
}

// BuildReport assembles a report without writing it.
func (t *Tracker) BuildReport(kind ReportKind) (Report, error) {
	report := Report{
		GeneratedAt: t.now(),
		ReportType:  kind,
	}

	switch kind {
	case ReportWeekly:
		report.WeeklyReports = t.WeeklyReport(DefaultWeeksBack)
	case ReportMonthly:
		report.MonthlyReports = t.MonthlyReport(DefaultMonthsBack)
	case ReportBoth:
		report.WeeklyReports = t.WeeklyReport(DefaultWeeksBack)
		report.MonthlyReports = t.MonthlyReport(DefaultMonthsBack)
	default:
		return Report{}, errors.Newf(errors.ErrCodeInvalidParameter, "unknown report type %q", kind)
	}

	report.OverallStats = t.OverallStats()

	return report, nil
}

// GenerateReport builds a report and writes it to
// <reports dir>/performance_report_YYYYMMDD_HHMMSS.json.
func (t *Tracker) GenerateReport(kind ReportKind) (Report, error) {
	report, err := t.BuildReport(kind)
	if err != nil {
		return Report{}, err
	}

	if t.reportsDir == "" {
		return Report{}, errors.New(errors.ErrCodeReportFailed, "reports directory is not configured")
	}

	if err := os.MkdirAll(t.reportsDir, 0755); err != nil {
		return Report{}, errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to create %s", t.reportsDir)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeReportFailed, "failed to encode report", err)
	}

	name := fmt.Sprintf("performance_report_%s.json", report.GeneratedAt.Format("20060102_150405"))
	report.Path = filepath.Join(t.reportsDir, name)

	if err := os.WriteFile(report.Path, data, 0644); err != nil {
		return Report{}, errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to write %s", report.Path)
	}

	t.logger.Info("Saved performance report", zap.String("path", report.Path))

	return report, nil
}
