package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-resty/resty/v2"
	"github.com/polygon-io/client-go/rest/models"
)

const TwelveDataBaseURL = "https://api.twelvedata.com"

type twelveDataBar struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type twelveDataSeries struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Values  []twelveDataBar `json:"values"`
}

type twelveDataPrice struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Price   string `json:"price"`
}

// TwelveDataClient reads bars and quotes from the Twelve Data REST API.
type TwelveDataClient struct {
	apiKey string
	client *resty.Client
}

func NewTwelveDataClient(apiKey string, opts ...HTTPOption) (*TwelveDataClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "twelve data api key is required")
	}

	return &TwelveDataClient{
		apiKey: apiKey,
		client: newRestClient(TwelveDataBaseURL, opts),
	}, nil
}

func (c *TwelveDataClient) Name() string {
	return "TwelveData"
}

// TwelveDataInterval converts a multiplier and timespan to a Twelve Data interval.
func TwelveDataInterval(multiplier int, timespan models.Timespan) (string, error) {
	switch {
	case timespan == models.Minute && (multiplier == 1 || multiplier == 5 || multiplier == 15 || multiplier == 30 || multiplier == 45):
		return fmt.Sprintf("%dmin", multiplier), nil
	case timespan == models.Hour && (multiplier == 1 || multiplier == 2 || multiplier == 4):
		return fmt.Sprintf("%dh", multiplier), nil
	case timespan == models.Day && multiplier == 1:
		return "1day", nil
	case timespan == models.Week && multiplier == 1:
		return "1week", nil
	case timespan == models.Month && multiplier == 1:
		return "1month", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval for Twelve Data: %d %s", multiplier, timespan)
	}
}

func twelveDataSymbol(symbol string) (string, error) {
	base, quote, err := SplitPair(symbol)
	if err != nil {
		return "", err
	}

	return base + "/" + quote, nil
}

// FetchOHLC returns the latest limit bars. The API answers newest first.
func (c *TwelveDataClient) FetchOHLC(ctx context.Context, symbol string, multiplier int, timespan models.Timespan, limit int) ([]types.MarketData, error) {
	interval, err := TwelveDataInterval(multiplier, timespan)
	if err != nil {
		return nil, err
	}

	pair, err := twelveDataSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var body twelveDataSeries

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     pair,
			"interval":   interval,
			"outputsize": fmt.Sprint(limit),
			"apikey":     c.apiKey,
		}).
		SetResult(&body).
		Get("/time_series")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return nil, err
	}

	if body.Status == "error" {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "TwelveData error %d: %s", body.Code, body.Message)
	}

	bars := make([]types.MarketData, 0, len(body.Values))

	for _, v := range body.Values {
		bar, err := v.toMarketData(symbol)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	reverseBars(bars)

	return tail(bars, limit), nil
}

// CurrentPrice returns the latest real-time price.
func (c *TwelveDataClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	pair, err := twelveDataSymbol(symbol)
	if err != nil {
		return 0, err
	}

	var body twelveDataPrice

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": pair,
			"apikey": c.apiKey,
		}).
		SetResult(&body).
		Get("/price")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return 0, err
	}

	if body.Status == "error" {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "TwelveData error: %s", body.Message)
	}

	return parsePrice(c.Name(), body.Price)
}

func (b twelveDataBar) toMarketData(symbol string) (types.MarketData, error) {
	t, err := parseBarTime(b.Datetime)
	if err != nil {
		return types.MarketData{}, err
	}

	values := make([]float64, 4)

	for i, raw := range []string{b.Open, b.High, b.Low, b.Close} {
		v, err := parsePrice("TwelveData", raw)
		if err != nil {
			return types.MarketData{}, err
		}

		values[i] = v
	}

	// forex series carry no volume
	var volume float64
	if b.Volume != "" {
		volume, _ = parsePrice("TwelveData", b.Volume)
	}

	return types.MarketData{
		Symbol: symbol,
		Time:   t,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: volume,
	}, nil
}

// parseBarTime parses the "2006-01-02 15:04:05" or "2006-01-02" timestamps used by
// Twelve Data and Alpha Vantage. Both are UTC.
func parseBarTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeMarketDataParseFailed, "invalid bar time %q", raw)
}

var (
	_ OHLCProvider  = (*TwelveDataClient)(nil)
	_ PriceProvider = (*TwelveDataClient)(nil)
)
