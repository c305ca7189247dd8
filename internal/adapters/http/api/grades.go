package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

type scoreRequest struct {
	Student    string `json:"student" validate:"required"`
	Competency string `json:"competency" validate:"required"`
	Score      *int   `json:"score" validate:"required"`
}

// GradeHandler handles score entry and grade views.
type GradeHandler struct {
	deps     Dependencies
	validate *validator.Validate
	maxBytes int64
}

// NewGradeHandler creates a new grade handler.
func NewGradeHandler(deps Dependencies, v *validator.Validate, maxBytes int64) *GradeHandler {
	return &GradeHandler{deps: deps, validate: v, maxBytes: maxBytes}
}

// HandleScore handles PUT /sessions/{id}/scores.
func (h *GradeHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, h.maxBytes, h.validate, &req); err != nil {
		writeDomainError(w, err, 0)
		return
	}
	row, err := h.deps.RecordScore(r.Context(), r.PathValue("id"), req.Student, req.Competency, *req.Score)
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// HandleGrades handles GET /sessions/{id}/grades.
func (h *GradeHandler) HandleGrades(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.Grades(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleStudent handles GET /sessions/{id}/students/{name}.
func (h *GradeHandler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	row, err := h.deps.Student(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
