package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fxconverter/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestExchangeRateClient_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
            "result": "success",
            "base_code": "USD",
            "conversion_rates": {"EUR": 0.92, "JPY": 150.0}
        }`))
	}))
	t.Cleanup(srv.Close)

	baseURL := srv.URL + "/v6/key/latest/"
	c := NewExchangeRateClient(srv.Client(), baseURL)

	ratesMap, err := c.GetExchangeRates(context.Background(), "USD")
	require.NoError(t, err)
	require.Equal(t, "/v6/key/latest/USD", gotPath)
	require.Len(t, ratesMap, 2)
	require.InDelta(t, 0.92, ratesMap["EUR"], 1e-9)
	require.InDelta(t, 150.0, ratesMap["JPY"], 1e-9)
}

func TestExchangeRateClient_StatusCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "unexpected status code 503")
	require.Contains(t, err.Error(), "USD")
}

func TestExchangeRateClient_JSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{")) // invalid JSON
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode response for currency \"USD\"")
}

func TestExchangeRateClient_NonSuccessResult_UsesErrorType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": "error", "error-type": "invalid-key"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrProviderFailure)
	require.Contains(t, err.Error(), "api returned non-success result for currency \"USD\": invalid-key")
}

func TestExchangeRateClient_NonSuccessResult_WithoutErrorType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": "error", "base_code": "USD", "conversion_rates": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrProviderFailure)
	require.Contains(t, err.Error(), "non-success result for currency \"USD\": error")
}

func TestExchangeRateClient_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": "success", "conversion_rates": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrProviderFailure)
}

func TestExchangeRateClient_BaseURLParseError(t *testing.T) {
	c := NewExchangeRateClient(&http.Client{}, "http://::1]")
	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse base URL")
}

func TestExchangeRateClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"result": "success", "conversion_rates": {"EUR": 0.9}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest", WithRetries(2, time.Millisecond))

	rates, err := c.GetExchangeRates(context.Background(), "USD")
	require.NoError(t, err)
	require.InDelta(t, 0.9, rates["EUR"], 1e-9)
	require.Equal(t, int32(2), calls.Load())
}

func TestExchangeRateClient_DoesNotRetryLogicalFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"result": "error", "error-type": "unsupported-code"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest", WithRetries(3, time.Millisecond))

	_, err := c.GetExchangeRates(context.Background(), "ZZZ")
	require.ErrorIs(t, err, domain.ErrProviderFailure)
	require.Equal(t, int32(1), calls.Load())
}

func TestExchangeRateClient_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetExchangeRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrUnexpectedStatus)
	require.Equal(t, int32(1), calls.Load())
}
