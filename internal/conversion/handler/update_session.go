package handler

import (
	"errors"
	"net/http"
	"strings"

	"fxconverter/internal/conversion"
	"fxconverter/internal/domain"

	"github.com/sirupsen/logrus"
)

// UpdateSessionRequest is one input event. Omitted fields keep their value.
type UpdateSessionRequest struct {
	Amount *string `json:"amount,omitempty" example:"250"`
	From   *string `json:"from,omitempty" example:"GBP"`
	To     *string `json:"to,omitempty" example:"JPY"`
}

// UpdateSession godoc
// @Summary Change session input
// @Description Applies amount or currency changes and converts. Invalid amounts are reported in the view status, not as errors
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body UpdateSessionRequest true "Changed fields"
// @Success 200 {object} domain.View
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id} [patch]
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	upd := conversion.Update{Amount: req.Amount}
	if req.From != nil {
		from := strings.ToUpper(strings.TrimSpace(*req.From))
		if err := h.validator.ValidateFrom(from); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.From = &from
	}
	if req.To != nil {
		to := strings.ToUpper(strings.TrimSpace(*req.To))
		if err := h.validator.ValidateTo(to); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.To = &to
	}

	view, err := h.converter.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		msg := "ups, couldn't update session this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "UpdateSession", "session_id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
