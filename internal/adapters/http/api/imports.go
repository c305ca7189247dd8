package api

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/types"
)

// ImportHandler handles CSV uploads.
type ImportHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewImportHandler creates a new import handler.
func NewImportHandler(deps Dependencies, maxBytes int64) *ImportHandler {
	return &ImportHandler{deps: deps, maxBytes: maxBytes}
}

// HandleRoster handles PUT /sessions/{id}/roster.
func (h *ImportHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, csvimport.KindStudent, h.deps.ImportRoster)
}

// HandleRubric handles PUT /sessions/{id}/rubric.
func (h *ImportHandler) HandleRubric(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, csvimport.KindCompetency, h.deps.ImportRubric)
}

type importFunc func(ctx context.Context, id string, r io.Reader) (types.ImportResult, error)

func (h *ImportHandler) handle(w http.ResponseWriter, r *http.Request, kind csvimport.Kind, importer importFunc) {
	data, err := readBody(w, r, h.maxBytes)
	if err != nil {
		writeDomainError(w, err, kind)
		return
	}
	if err := sniffText(data); err != nil {
		writeDomainError(w, err, kind)
		return
	}
	res, err := importer(r.Context(), r.PathValue("id"), bytes.NewReader(data))
	if err != nil {
		writeDomainError(w, err, kind)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
