package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fxconverter/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore keeps the rate snapshot as one row of rate_snapshots addressed by key.
type SnapshotStore struct {
	pool *pgxpool.Pool
	key  string
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.RateSnapshot, error) {
	const q = `
		select base, rates, fetched_at
		from rate_snapshots
		where key = $1;
	`

	var (
		snapshot domain.RateSnapshot
		rawRates []byte
	)
	if err := s.pool.QueryRow(ctx, q, s.key).Scan(&snapshot.Base, &rawRates, &snapshot.FetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateSnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.RateSnapshot{}, fmt.Errorf("failed to select snapshot %q: %w", s.key, err)
	}

	if err := json.Unmarshal(rawRates, &snapshot.Rates); err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to decode rates of snapshot %q: %w", s.key, err)
	}
	return snapshot, nil
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot domain.RateSnapshot) error {
	rawRates, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	const q = `
		insert into rate_snapshots (key, base, rates, fetched_at)
		values ($1, $2, $3::jsonb, $4)
		on conflict (key) do update
		set base = excluded.base, rates = excluded.rates, fetched_at = excluded.fetched_at;
	`

	if _, err = s.pool.Exec(ctx, q, s.key, snapshot.Base, string(rawRates), snapshot.FetchedAt); err != nil {
		return fmt.Errorf("failed to upsert snapshot %q: %w", s.key, err)
	}
	return nil
}

func NewSnapshotStore(pool *pgxpool.Pool, key string) *SnapshotStore {
	return &SnapshotStore{pool: pool, key: key}
}
