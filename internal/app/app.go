package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxconverter/internal/adapters"
	"fxconverter/internal/adapters/bolt"
	"fxconverter/internal/adapters/cache"
	"fxconverter/internal/adapters/httpclient"
	"fxconverter/internal/adapters/postgres"
	"fxconverter/internal/api"
	"fxconverter/internal/config"
	"fxconverter/internal/conversion"
	"fxconverter/internal/conversion/handler"
	"fxconverter/internal/platform/db"
	httpserver "fxconverter/internal/platform/http"
	"fxconverter/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run(configFile string) error {
	appCfg, err := initConfig(configFile)
	if err != nil {
		return err
	}

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, closeStore, err := openSnapshotStore(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Error("Error opening snapshot store")
		return err
	}
	defer closeStore()

	rateClient, err := newRateClient(appCfg)
	if err != nil {
		return err
	}

	// Session registry
	sessions, err := cache.NewSessionCache[*conversion.Session](
		appCfg.Sessions.MaxItems,
		time.Duration(appCfg.Sessions.TTLSec)*time.Second,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to create session cache")
		return err
	}
	defer sessions.Close()

	// Services
	appMetrics := metrics.New()
	conversionService := conversion.NewService(rateClient, store, sessions, appMetrics, serviceOptions(appCfg))
	currencyValidator := conversion.NewValidator(appCfg.Rates.SupportedCurrencies)
	logrus.Infof("✅ %d supported currencies loaded", len(currencyValidator.SupportedCodes()))

	if appCfg.Scheduler.Enabled {
		scheduler := conversion.NewScheduler(conversionService, time.Duration(appCfg.Scheduler.IntervalSec)*time.Second)
		// Ensure scheduler stops before the snapshot store closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	sessionHandler := handler.NewSessionHandler(conversionService, currencyValidator)
	router := api.NewRouter(sessionHandler, appMetrics.Handler())

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func initConfig(configFile string) (*config.AppConfig, error) {
	appCfg, err := config.Init(configFile)
	if err != nil {
		return nil, err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")
	return appCfg, nil
}

func serviceOptions(appCfg *config.AppConfig) conversion.Options {
	return conversion.Options{
		FreshnessWindow: appCfg.Rates.FreshnessWindow(),
		FallbackWindow:  appCfg.Rates.FallbackWindow(),
	}
}

// openSnapshotStore opens the configured snapshot driver and returns its cleanup func.
func openSnapshotStore(ctx context.Context, appCfg *config.AppConfig) (adapters.SnapshotStore, func(), error) {
	switch appCfg.Snapshot.Driver {
	case config.SnapshotDriverPostgres:
		pool, err := db.Connect(ctx, appCfg.DbServer)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to db: %w", err)
		}
		logrus.Info("✅ Postgres connection successful")
		return postgres.NewSnapshotStore(pool, appCfg.Snapshot.Key), pool.Close, nil

	case config.SnapshotDriverBolt:
		store, err := bolt.Open(appCfg.Snapshot.BoltPath, appCfg.Snapshot.Key)
		if err != nil {
			return nil, nil, err
		}
		logrus.Infof("✅ Snapshot file %s opened", appCfg.Snapshot.BoltPath)
		return store, func() {
			if closeErr := store.Close(); closeErr != nil {
				logrus.WithError(closeErr).Error("Failed to close snapshot store")
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown snapshot driver %q", appCfg.Snapshot.Driver)
}

func newRateClient(appCfg *config.AppConfig) (*httpclient.ExchangeRateClient, error) {
	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	exchangeAPIBaseURL := strings.TrimSuffix(appCfg.ExchangeRateAPI.BaseURL, "/")
	if appCfg.ExchangeRateAPI.APIKey == "" {
		return nil, errors.New("exchange rate api key is required")
	}
	return httpclient.NewExchangeRateClient(
		baseHTTPClient,
		fmt.Sprintf("%s/%s/latest", exchangeAPIBaseURL, appCfg.ExchangeRateAPI.APIKey),
		httpclient.WithRetries(appCfg.HTTPClient.Retries, time.Duration(appCfg.HTTPClient.RetryDelayMs)*time.Millisecond),
	), nil
}
