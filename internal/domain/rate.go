package domain

import (
	"maps"
	"time"
)

// RateTable maps a currency code to its conversion factor relative to a base currency.
type RateTable map[string]float64

func (t RateTable) Rate(code string) (float64, bool) {
	v, ok := t[code]
	return v, ok && v > 0
}

func (t RateTable) Clone() RateTable { return maps.Clone(t) }

// RateSnapshot is the persisted copy of the last successfully fetched table.
type RateSnapshot struct {
	Rates     RateTable
	Base      string
	FetchedAt time.Time
}

func (s RateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

type ConversionRequest struct {
	From   string
	To     string
	Amount float64
}
