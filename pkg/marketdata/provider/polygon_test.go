package provider

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator PolygonAggsIterator
	params   *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.params = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++

		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}

	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

// descendingAggs returns n hourly aggregates, newest first.
func descendingAggs(newest time.Time, n int) []models.Agg {
	aggs := make([]models.Agg, n)
	for i := range aggs {
		aggs[i] = models.Agg{
			Open:      2000 + float64(i),
			High:      2005 + float64(i),
			Low:       1995 + float64(i),
			Close:     2001 + float64(i),
			Volume:    100,
			Timestamp: models.Millis(newest.Add(-time.Duration(i) * time.Hour)),
		}
	}

	return aggs
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	client, err := NewPolygonClient("test-api-key")
	suite.Require().NoError(err)
	suite.NotNil(client.apiClient)
	suite.Nil(client.writer)

	_, err = NewPolygonClient("")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *PolygonClientTestSuite) TestPolygonTicker() {
	suite.Equal("C:XAUUSD", PolygonTicker("XAUUSD"))
	suite.Equal("C:XAUUSD", PolygonTicker("xau/usd"))
	suite.Equal("X:BTCUSD", PolygonTicker("X:BTCUSD"))
	suite.Equal("SPY", PolygonTicker("SPY"))
}

func (suite *PolygonClientTestSuite) TestFetchOHLCReturnsAscending() {
	newest := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: descendingAggs(newest, 10)}}
	client := NewPolygonClientWithAPI(api)
	client.now = func() time.Time { return newest }

	bars, err := client.FetchOHLC(context.Background(), "XAUUSD", 1, models.Hour, 5)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 5)
	suite.Equal(newest.Add(-4*time.Hour), bars[0].Time)
	suite.Equal(newest, bars[4].Time)
	suite.Equal("XAUUSD", bars[0].Symbol)

	suite.Equal("C:XAUUSD", api.params.Ticker)
	suite.Require().NotNil(api.params.Order)
	suite.Equal(models.Desc, *api.params.Order)
}

func (suite *PolygonClientTestSuite) TestFetchOHLCIteratorError() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{err: stderrors.New("forbidden")}}
	client := NewPolygonClientWithAPI(api)

	_, err := client.FetchOHLC(context.Background(), "XAUUSD", 1, models.Hour, 5)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

func (suite *PolygonClientTestSuite) TestFetchOHLCInvalidTimespan() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{})

	_, err := client.FetchOHLC(context.Background(), "XAUUSD", 1, models.Quarter, 5)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan))
}

func (suite *PolygonClientTestSuite) TestDownloadWithoutWriter() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{})

	_, err := client.Download(context.Background(), "XAUUSD", time.Now().Add(-time.Hour), time.Now(), 1, models.Hour, nil)
	suite.Error(err)
	suite.Contains(err.Error(), "no writer configured")
}

func (suite *PolygonClientTestSuite) TestDownloadWritesAll() {
	newest := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: descendingAggs(newest, 3)}}
	w := &mockWriter{outputPath: "out.parquet"}

	client := NewPolygonClientWithAPI(api)
	client.ConfigWriter(w)

	path, err := client.Download(context.Background(), "XAUUSD", newest.Add(-48*time.Hour), newest, 1, models.Hour, nil)
	suite.Require().NoError(err)
	suite.Equal("out.parquet", path)
	suite.Len(w.writtenData, 3)
	suite.Require().NotNil(api.params.Limit)
	suite.Equal(50000, *api.params.Limit)
}

func (suite *PolygonClientTestSuite) TestDownloadWriteError() {
	newest := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: descendingAggs(newest, 3)}}

	client := NewPolygonClientWithAPI(api)
	client.ConfigWriter(&mockWriter{writeErr: stderrors.New("disk full")})

	_, err := client.Download(context.Background(), "XAUUSD", newest.Add(-48*time.Hour), newest, 1, models.Hour, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
}

func (suite *PolygonClientTestSuite) TestSpanDuration() {
	suite.Equal(time.Hour, SpanDuration(1, models.Hour))
	suite.Equal(15*time.Minute, SpanDuration(15, models.Minute))
	suite.Equal(48*time.Hour, SpanDuration(2, models.Day))
	suite.Equal(time.Duration(0), SpanDuration(1, models.Quarter))
}
