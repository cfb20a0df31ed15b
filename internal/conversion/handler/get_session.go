package handler

import (
	"errors"
	"fxconverter/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

// GetSession godoc
// @Summary Get session view
// @Description Returns the current display fields of a session without converting
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.View
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.converter.View(id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		msg := "ups, couldn't get session this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetSession", "session_id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
