package domain

import (
	"encoding/json"
	"time"
)

// snapshotJSON is the stored form: {"rates":{...},"timestamp":<unix ms>,"base":"USD"}.
type snapshotJSON struct {
	Rates     RateTable `json:"rates"`
	Timestamp int64     `json:"timestamp"`
	Base      string    `json:"base"`
}

func (s RateSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		Rates:     s.Rates,
		Timestamp: s.FetchedAt.UnixMilli(),
		Base:      s.Base,
	})
}

func (s *RateSnapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Rates = raw.Rates
	s.Base = raw.Base
	s.FetchedAt = time.UnixMilli(raw.Timestamp)
	return nil
}
