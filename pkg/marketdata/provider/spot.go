package provider

import (
	"context"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-resty/resty/v2"
)

const (
	FreeForexBaseURL = "https://www.freeforexapi.com"
	GoldAPIBaseURL   = "https://www.goldapi.io"
)

type freeForexRate struct {
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
}

type freeForexResponse struct {
	Rates   map[string]freeForexRate `json:"rates"`
	Code    int                      `json:"code"`
	Message string                   `json:"message"`
}

// FreeForexClient reads live rates from freeforexapi.com. No key is needed.
type FreeForexClient struct {
	client *resty.Client
}

func NewFreeForexClient(opts ...HTTPOption) *FreeForexClient {
	return &FreeForexClient{client: newRestClient(FreeForexBaseURL, opts)}
}

func (c *FreeForexClient) Name() string {
	return "FreeForexAPI"
}

func (c *FreeForexClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	base, quote, err := SplitPair(symbol)
	if err != nil {
		return 0, err
	}

	pair := base + quote

	var body freeForexResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("pairs", pair).
		SetResult(&body).
		Get("/api/live")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return 0, err
	}

	rate, ok := body.Rates[pair]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "FreeForexAPI has no rate for %s: %s", pair, body.Message)
	}

	return rate.Rate, nil
}

type goldAPIResponse struct {
	Price float64 `json:"price"`
	Error string  `json:"error"`
}

// GoldAPIClient reads metal spot prices from goldapi.io.
type GoldAPIClient struct {
	apiKey string
	client *resty.Client
}

func NewGoldAPIClient(apiKey string, opts ...HTTPOption) (*GoldAPIClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "gold api key is required")
	}

	return &GoldAPIClient{
		apiKey: apiKey,
		client: newRestClient(GoldAPIBaseURL, opts),
	}, nil
}

func (c *GoldAPIClient) Name() string {
	return "GoldAPI"
}

func (c *GoldAPIClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	base, quote, err := SplitPair(symbol)
	if err != nil {
		return 0, err
	}

	var body goldAPIResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-access-token", c.apiKey).
		SetPathParams(map[string]string{"base": base, "quote": quote}).
		SetResult(&body).
		Get("/api/{base}/{quote}")
	if err := checkResponse(c.Name(), resp, err); err != nil {
		return 0, err
	}

	if body.Error != "" {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "GoldAPI: %s", body.Error)
	}

	return body.Price, nil
}

var (
	_ PriceProvider = (*FreeForexClient)(nil)
	_ PriceProvider = (*GoldAPIClient)(nil)
)
