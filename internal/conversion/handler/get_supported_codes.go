package handler

import (
	"net/http"
)

type GetSupportedCodesResponse struct {
	Codes []string `json:"codes" example:"USD,EUR,JPY"`
}

// GetSupportedCodes godoc
// @Summary List supported currencies
// @Description Retrieve all currency codes a session can convert between
// @Tags Currencies
// @Produce json
// @Success 200 {object} GetSupportedCodesResponse
// @Router /currencies [get]
func (h *Handler) GetSupportedCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{
		Codes: h.validator.SupportedCodes(),
	})
}
