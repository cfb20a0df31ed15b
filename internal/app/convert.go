package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fxconverter/internal/conversion"
	"fxconverter/internal/domain"
)

type ConvertOptions struct {
	From   string
	To     string
	Amount string
	Swap   bool
}

// Convert runs a single conversion against the configured provider and snapshot
// store and prints the resulting view to out.
func Convert(ctx context.Context, configFile string, opts ConvertOptions, out io.Writer) error {
	appCfg, err := initConfig(configFile)
	if err != nil {
		return err
	}

	from := strings.ToUpper(strings.TrimSpace(opts.From))
	to := strings.ToUpper(strings.TrimSpace(opts.To))
	if err = conversion.NewValidator(appCfg.Rates.SupportedCurrencies).ValidateCodes(from, to); err != nil {
		return err
	}

	store, closeStore, err := openSnapshotStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rateClient, err := newRateClient(appCfg)
	if err != nil {
		return err
	}

	service := conversion.NewService(rateClient, store, nil, nil, serviceOptions(appCfg))
	session, err := service.NewSession(ctx, from, to, opts.Amount)
	if err != nil {
		return err
	}

	// Startup may adopt a persisted snapshot for another base.
	view := session.View()
	switch {
	case view.From != from:
		view, _ = session.SetFrom(ctx, from)
	case view.Status != domain.StatusError:
		view, _ = session.Convert(ctx)
	}
	if opts.Swap {
		view, _ = session.Swap(ctx)
	}
	return PrintView(out, view)
}

// PrintView writes the display fields of view, returning an error when no result could be shown.
func PrintView(out io.Writer, view domain.View) error {
	if view.Result != "" {
		_, _ = fmt.Fprintf(out, "%s %s = %s %s\n", view.Amount, view.From, view.Result, view.To)
	}
	if view.RateInfo != "" {
		_, _ = fmt.Fprintln(out, view.RateInfo)
	}
	if view.LastUpdatedText != "" {
		_, _ = fmt.Fprintln(out, view.LastUpdatedText)
	}
	if view.Message != "" {
		_, _ = fmt.Fprintln(out, view.Message)
	}

	switch view.Status {
	case domain.StatusInvalidInput, domain.StatusError:
		return errors.New(view.Message)
	}
	return nil
}
