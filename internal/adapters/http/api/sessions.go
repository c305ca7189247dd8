package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type choiceRequest struct {
	Choice string `json:"choice" validate:"required"`
}

// SessionHandler handles session lifecycle and rubric selection.
type SessionHandler struct {
	deps     Dependencies
	validate *validator.Validate
	maxBytes int64
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies, v *validator.Validate, maxBytes int64) *SessionHandler {
	return &SessionHandler{deps: deps, validate: v, maxBytes: maxBytes}
}

// HandleCreate handles POST /sessions.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	w.Header().Set("Location", "/sessions/"+v.ID)
	writeJSON(w, http.StatusCreated, v)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReset handles POST /sessions/{id}/reset.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ResetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleChoice handles PUT /sessions/{id}/rubric/choice.
func (h *SessionHandler) HandleChoice(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := decodeJSON(w, r, h.maxBytes, h.validate, &req); err != nil {
		writeDomainError(w, err, 0)
		return
	}
	v, err := h.deps.SelectRubric(r.Context(), r.PathValue("id"), req.Choice)
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v *validator.Validate, dst any) error {
	data, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := v.Struct(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
