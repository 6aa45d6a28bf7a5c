package provider

import (
	"strconv"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-resty/resty/v2"
)

// DefaultHTTPTimeout bounds every request made to a REST price or bar source.
const DefaultHTTPTimeout = 10 * time.Second

type httpOptions struct {
	baseURL string
	timeout time.Duration
}

// HTTPOption configures a REST backed provider.
type HTTPOption func(*httpOptions)

// WithBaseURL overrides the provider's API root.
func WithBaseURL(url string) HTTPOption {
	return func(o *httpOptions) {
		o.baseURL = url
	}
}

// WithTimeout overrides DefaultHTTPTimeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(o *httpOptions) {
		o.timeout = timeout
	}
}

func newRestClient(defaultBaseURL string, opts []HTTPOption) *resty.Client {
	o := httpOptions{baseURL: defaultBaseURL, timeout: DefaultHTTPTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")
}

// checkResponse converts a transport error or a non 2xx status into a fetch error.
func checkResponse(source string, resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "%s request failed", source)
	}

	if resp.IsError() {
		return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "%s returned status %d", source, resp.StatusCode())
	}

	return nil
}

func parsePrice(source string, raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "%s returned invalid price %q", source, raw)
	}

	return price, nil
}
