package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/gradebook/internal/domain/csvexport"
)

// ExportHandler handles CSV export.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleDownload handles GET /sessions/{id}/export.
func (h *ExportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	art, err := h.deps.ExportCSV(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	w.Header().Set("Content-Type", csvexport.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// HandleWrite handles POST /sessions/{id}/export.
func (h *ExportHandler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ExportToSink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
