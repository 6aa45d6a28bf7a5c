package marketdata

import (
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type TimespanTestSuite struct {
	suite.Suite
}

func TestTimespanSuite(t *testing.T) {
	suite.Run(t, new(TimespanTestSuite))
}

func (suite *TimespanTestSuite) TestParse() {
	tests := []struct {
		input      string
		multiplier int
		unit       models.Timespan
		duration   time.Duration
	}{
		{"1m", 1, models.Minute, time.Minute},
		{"15m", 15, models.Minute, 15 * time.Minute},
		{"1h", 1, models.Hour, time.Hour},
		{"4h", 4, models.Hour, 4 * time.Hour},
		{"1d", 1, models.Day, 24 * time.Hour},
		{"3d", 3, models.Day, 72 * time.Hour},
		{"1w", 1, models.Week, 7 * 24 * time.Hour},
		{"1M", 1, models.Month, 30 * 24 * time.Hour},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			ts, err := ParseTimespan(tc.input)
			suite.Require().NoError(err)
			suite.Equal(tc.multiplier, ts.Multiplier())
			suite.Equal(tc.unit, ts.Timespan())
			suite.Equal(tc.duration, ts.Duration())
		})
	}
}

func (suite *TimespanTestSuite) TestUnsupported() {
	for _, input := range []string{"90m", "1H", "", "1y"} {
		_, err := ParseTimespan(input)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan), input)
	}
}

func (suite *TimespanTestSuite) TestUnknownFallsBackToOneDay() {
	unknown := Timespan("unknown")
	suite.Equal(1, unknown.Multiplier())
	suite.Equal(models.Day, unknown.Timespan())
}
