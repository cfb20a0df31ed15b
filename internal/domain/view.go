package domain

import "time"

type Status string

const (
	StatusOK           Status = "ok"
	StatusPending      Status = "pending"
	StatusInvalidInput Status = "invalid_input"
	StatusCached       Status = "cached"
	StatusError        Status = "error"
)

// View holds the display fields of a conversion session.
type View struct {
	From            string     `json:"from" example:"USD"`
	To              string     `json:"to" example:"EUR"`
	Amount          string     `json:"amount" example:"100"`
	Result          string     `json:"result" example:"90.00"`
	RateInfo        string     `json:"rate_info" example:"1 USD = 0.900000 EUR"`
	Status          Status     `json:"status" example:"ok"`
	Message         string     `json:"message,omitempty"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
	LastUpdatedText string     `json:"last_updated_text,omitempty" example:"Last updated: 15:04:05"`
	Cached          bool       `json:"cached"`
	Busy            bool       `json:"busy"`
}
