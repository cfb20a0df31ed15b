package conversion

import (
	"errors"
	"maps"
	"slices"
)

var (
	ErrFromRequired    = errors.New("from currency is required")
	ErrToRequired      = errors.New("to currency is required")
	ErrFromUnsupported = errors.New("from currency not supported")
	ErrToUnsupported   = errors.New("to currency not supported")
)

type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

// ValidateCodes checks a from/to selection. Converting a currency into itself is allowed.
func (v *CurrencyValidator) ValidateCodes(from, to string) error {
	if err := v.ValidateFrom(from); err != nil {
		return err
	}
	return v.ValidateTo(to)
}

func (v *CurrencyValidator) ValidateFrom(code string) error {
	if code == "" {
		return ErrFromRequired
	}
	if !v.Supported(code) {
		return ErrFromUnsupported
	}
	return nil
}

func (v *CurrencyValidator) ValidateTo(code string) error {
	if code == "" {
		return ErrToRequired
	}
	if !v.Supported(code) {
		return ErrToUnsupported
	}
	return nil
}

func (v *CurrencyValidator) Supported(code string) bool {
	_, ok := v.supportedCodesSet[code]
	return ok
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(supportedCurrencies []string) *CurrencyValidator {
	codesSet := make(map[string]struct{}, len(supportedCurrencies))
	for _, code := range supportedCurrencies {
		codesSet[normalizeCode(code)] = struct{}{}
	}
	codesLst := slices.Sorted(maps.Keys(codesSet))

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}
