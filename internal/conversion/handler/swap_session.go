package handler

import (
	"errors"
	"fxconverter/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

// SwapSession godoc
// @Summary Swap currencies
// @Description Exchanges from and to, then fetches rates for the new base
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.View
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id}/swap [post]
func (h *Handler) SwapSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.converter.Swap(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		msg := "ups, couldn't swap currencies this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SwapSession", "session_id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
