package handler

import (
	"context"
	"encoding/json"
	"fxconverter/internal/conversion"
	"fxconverter/internal/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 256

type Validator interface {
	ValidateCodes(from, to string) error
	ValidateFrom(code string) error
	ValidateTo(code string) error
	SupportedCodes() []string
}

type Converter interface {
	Start(ctx context.Context, from, to, amount string) (uuid.UUID, domain.View, error)
	View(id uuid.UUID) (domain.View, error)
	Update(ctx context.Context, id uuid.UUID, upd conversion.Update) (domain.View, error)
	Swap(ctx context.Context, id uuid.UUID) (domain.View, error)
}

type Handler struct {
	validator Validator
	converter Converter
}

func NewSessionHandler(converter Converter, validator Validator) *Handler {
	return &Handler{validator: validator, converter: converter}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// sessionID parses the {id} path parameter, writing a 400 when it is malformed.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
