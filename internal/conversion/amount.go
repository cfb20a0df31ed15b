package conversion

import (
	"fmt"
	"fxconverter/internal/domain"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseAmount parses free-text amount input.
func ParseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.ErrInvalidAmount
	}
	if v < 0 {
		return 0, domain.ErrNegativeAmount
	}
	return v, nil
}

func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func FormatRateInfo(from, to string, rate float64) string {
	return fmt.Sprintf("1 %s = %s %s", from, strconv.FormatFloat(rate, 'f', 6, 64), to)
}

func FormatLastUpdated(at time.Time, cached bool) string {
	text := "Last updated: " + at.Format(time.TimeOnly)
	if cached {
		text += " (cached)"
	}
	return text
}
