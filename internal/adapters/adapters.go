package adapters

import (
	"context"
	"fxconverter/internal/domain"
)

type RateClient interface {
	GetExchangeRates(ctx context.Context, base string) (domain.RateTable, error)
}

type SnapshotStore interface {
	Load(ctx context.Context) (domain.RateSnapshot, error)
	Save(ctx context.Context, snapshot domain.RateSnapshot) error
}
