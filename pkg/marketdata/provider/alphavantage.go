package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-resty/resty/v2"
	"github.com/polygon-io/client-go/rest/models"
)

const AlphaVantageBaseURL = "https://www.alphavantage.co"

// alphaVantageCompactSize is the number of points returned with outputsize=compact.
const alphaVantageCompactSize = 100

// alphaVantageStatus holds the fields Alpha Vantage uses to report failures with a 200 status.
type alphaVantageStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (s alphaVantageStatus) err() error {
	for _, msg := range []string{s.ErrorMessage, s.Note, s.Information} {
		if msg != "" {
			return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "AlphaVantage: %s", msg)
		}
	}

	return nil
}

type alphaVantageRate struct {
	alphaVantageStatus
	Rate map[string]string `json:"Realtime Currency Exchange Rate"`
}

// AlphaVantageClient reads FX quotes and bars from the Alpha Vantage API.
type AlphaVantageClient struct {
	apiKey string
	client *resty.Client
}

func NewAlphaVantageClient(apiKey string, opts ...HTTPOption) (*AlphaVantageClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "alpha vantage api key is required")
	}

	return &AlphaVantageClient{
		apiKey: apiKey,
		client: newRestClient(AlphaVantageBaseURL, opts),
	}, nil
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

// CurrentPrice returns the realtime exchange rate of the pair.
func (c *AlphaVantageClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	base, quote, err := SplitPair(symbol)
	if err != nil {
		return 0, err
	}

	var body alphaVantageRate

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":      "CURRENCY_EXCHANGE_RATE",
			"from_currency": base,
			"to_currency":   quote,
			"apikey":        c.apiKey,
		}).
		SetResult(&body).
		Get("/query")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return 0, err
	}

	if err := body.err(); err != nil {
		return 0, err
	}

	raw, ok := body.Rate["5. Exchange Rate"]
	if !ok {
		return 0, errors.New(errors.ErrCodeMarketDataParseFailed, "AlphaVantage response has no exchange rate")
	}

	return parsePrice(c.Name(), raw)
}

// alphaVantageFunction returns the API function, its interval parameter and the
// key of the time series in the response.
func alphaVantageFunction(multiplier int, timespan models.Timespan) (function string, interval string, key string, err error) {
	switch {
	case timespan == models.Minute && (multiplier == 1 || multiplier == 5 || multiplier == 15 || multiplier == 30):
		interval = fmt.Sprintf("%dmin", multiplier)

		return "FX_INTRADAY", interval, fmt.Sprintf("Time Series FX (%s)", interval), nil
	case timespan == models.Hour && multiplier == 1:
		return "FX_INTRADAY", "60min", "Time Series FX (60min)", nil
	case timespan == models.Day && multiplier == 1:
		return "FX_DAILY", "", "Time Series FX (Daily)", nil
	case timespan == models.Week && multiplier == 1:
		return "FX_WEEKLY", "", "Time Series FX (Weekly)", nil
	case timespan == models.Month && multiplier == 1:
		return "FX_MONTHLY", "", "Time Series FX (Monthly)", nil
	default:
		return "", "", "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval for Alpha Vantage: %d %s", multiplier, timespan)
	}
}

// FetchOHLC returns the latest limit FX bars for the pair.
func (c *AlphaVantageClient) FetchOHLC(ctx context.Context, symbol string, multiplier int, timespan models.Timespan, limit int) ([]types.MarketData, error) {
	function, interval, key, err := alphaVantageFunction(multiplier, timespan)
	if err != nil {
		return nil, err
	}

	base, quote, err := SplitPair(symbol)
	if err != nil {
		return nil, err
	}

	outputSize := "compact"
	if limit > alphaVantageCompactSize {
		outputSize = "full"
	}

	params := map[string]string{
		"function":    function,
		"from_symbol": base,
		"to_symbol":   quote,
		"outputsize":  outputSize,
		"apikey":      c.apiKey,
	}
	if interval != "" {
		params["interval"] = interval
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/query")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return nil, err
	}

	var status alphaVantageStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode AlphaVantage response", err)
	}

	if err := status.err(); err != nil {
		return nil, err
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode AlphaVantage response", err)
	}

	raw, ok := body[key]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "AlphaVantage response has no %q", key)
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode AlphaVantage series", err)
	}

	bars := make([]types.MarketData, 0, len(series))

	for stamp, values := range series {
		t, err := parseBarTime(stamp)
		if err != nil {
			return nil, err
		}

		ohlc := make([]float64, 4)

		for i, field := range []string{"1. open", "2. high", "3. low", "4. close"} {
			v, err := parsePrice(c.Name(), values[field])
			if err != nil {
				return nil, err
			}

			ohlc[i] = v
		}

		bars = append(bars, types.MarketData{
			Symbol: symbol,
			Time:   t,
			Open:   ohlc[0],
			High:   ohlc[1],
			Low:    ohlc[2],
			Close:  ohlc[3],
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	return tail(bars, limit), nil
}

var (
	_ OHLCProvider  = (*AlphaVantageClient)(nil)
	_ PriceProvider = (*AlphaVantageClient)(nil)
)
