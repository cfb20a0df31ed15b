package handler

import (
	"net/http"
	"strings"

	"fxconverter/internal/domain"

	"github.com/sirupsen/logrus"
)

type CreateSessionRequest struct {
	From   string `json:"from" example:"USD"`
	To     string `json:"to" example:"EUR"`
	Amount string `json:"amount" example:"100"`
}

type CreateSessionResponse struct {
	SessionID string      `json:"session_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	View      domain.View `json:"view"`
}

// CreateSession godoc
// @Summary Start a conversion session
// @Description Creates a converter session and runs its first conversion, from a persisted snapshot when one is recent enough
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Initial form values"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))

	if err := h.validator.ValidateCodes(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, view, err := h.converter.Start(r.Context(), from, to, req.Amount)
	if err != nil {
		msg := "ups, couldn't start a session this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "CreateSession", "from": from, "to": to}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: id.String(),
		View:      view,
	})
}
