package marketdata

import (
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"github.com/polygon-io/client-go/rest/models"
)

// Timespan is a bar interval written the way exchanges write it, such as 1h or 15m.
type Timespan string

const (
	TimespanOneSecond      Timespan = "1s"
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanOneDay         Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

type span struct {
	multiplier int
	unit       models.Timespan
}

var spans = map[Timespan]span{
	TimespanOneSecond:      {1, models.Second},
	TimespanOneMinute:      {1, models.Minute},
	TimespanThreeMinutes:   {3, models.Minute},
	TimespanFiveMinutes:    {5, models.Minute},
	TimespanFifteenMinutes: {15, models.Minute},
	TimespanThirtyMinutes:  {30, models.Minute},
	TimespanOneHour:        {1, models.Hour},
	TimespanTwoHours:       {2, models.Hour},
	TimespanFourHours:      {4, models.Hour},
	TimespanSixHours:       {6, models.Hour},
	TimespanEightHours:     {8, models.Hour},
	TimespanTwelveHours:    {12, models.Hour},
	TimespanOneDay:         {1, models.Day},
	TimespanThreeDays:      {3, models.Day},
	TimespanOneWeek:        {1, models.Week},
	TimespanOneMonth:       {1, models.Month},
}

// Multiplier is the number of units in one bar. Unknown intervals count as one day.
func (t Timespan) Multiplier() int {
	if sp, ok := spans[t]; ok {
		return sp.multiplier
	}

	return 1
}

// Timespan is the unit of one bar in the Polygon vocabulary shared by every provider.
func (t Timespan) Timespan() models.Timespan {
	if sp, ok := spans[t]; ok {
		return sp.unit
	}

	return models.Day
}

// Duration returns the length of one bar. A month counts as 30 days.
func (t Timespan) Duration() time.Duration {
	return provider.SpanDuration(t.Multiplier(), t.Timespan())
}

// ParseTimespan validates s against the supported intervals.
func ParseTimespan(s string) (Timespan, error) {
	t := Timespan(s)
	if _, ok := spans[t]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", s)
	}

	return t, nil
}
