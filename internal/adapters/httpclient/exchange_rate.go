package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"fxconverter/internal/domain"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

type ExchangeRateClient struct {
	http       *http.Client
	baseURL    string
	retries    uint64
	retryDelay time.Duration
}

type apiResponse struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	ErrorType       string             `json:"error-type"`
}

type Option func(*ExchangeRateClient)

// WithRetries retries transport failures and 5xx responses with a constant delay.
// Provider logical failures are never retried.
func WithRetries(retries uint64, delay time.Duration) Option {
	return func(c *ExchangeRateClient) {
		c.retries = retries
		c.retryDelay = delay
	}
}

func (c *ExchangeRateClient) GetExchangeRates(ctx context.Context, base string) (domain.RateTable, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + base

	delay := c.retryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(delay))

	var rates domain.RateTable
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var fetchErr error
		var retryable bool
		rates, retryable, fetchErr = c.fetch(ctx, u.String(), base)
		if fetchErr != nil && retryable {
			logrus.WithError(fetchErr).WithField("base", base).Debug("rate request failed, retrying")
			return retry.RetryableError(fetchErr)
		}
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *ExchangeRateClient) fetch(ctx context.Context, rawURL string, base string) (domain.RateTable, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status code %d for currency %q: %s: %w", resp.StatusCode, base, resp.Status, domain.ErrUnexpectedStatus)
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("failed to decode response for currency %q: %w", base, err)
	}

	if body.Result != "success" {
		reason := body.ErrorType
		if reason == "" {
			reason = body.Result
		}
		return nil, false, fmt.Errorf("api returned non-success result for currency %q: %s: %w", base, reason, domain.ErrProviderFailure)
	}
	if len(body.ConversionRates) == 0 {
		return nil, false, fmt.Errorf("api returned no conversion rates for currency %q: %w", base, domain.ErrProviderFailure)
	}

	return body.ConversionRates, false, nil
}

func NewExchangeRateClient(httpClient *http.Client, baseURL string, opts ...Option) *ExchangeRateClient {
	c := &ExchangeRateClient{http: httpClient, baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
