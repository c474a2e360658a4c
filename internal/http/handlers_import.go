package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kakeibo/internal/importer"
)

type importPreviewResponse struct {
	Rows []importer.CanonicalRow `json:"rows"`
}

type importCommitRequest struct {
	UserID string                  `json:"userId"`
	Rows   []importer.CanonicalRow `json:"rows"`
}

type importCommitResponse struct {
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

// handleImportPreview decodes an uploaded workbook and returns every
// normalized row for review. Nothing is persisted here; unparseable cells
// show up as empty dates and zero amounts.
func (s *server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMax)
	if err := r.ParseMultipartForm(s.uploadMax); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload too large or malformed"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}
	defer file.Close()

	rows, err := s.imports.Preview(r.Context(), file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "not a readable workbook"})
		return
	}
	writeJSON(w, http.StatusOK, importPreviewResponse{Rows: rows})
}

// handleImportCommit persists reviewed rows. An unresolved category fails
// the whole batch with 422 and nothing written; a persistence failure
// partway reports how many records were committed before it.
func (s *server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	var req importCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing userId"})
		return
	}

	count, err := s.imports.Commit(r.Context(), req.Rows, req.UserID)
	if err != nil {
		var notFound *importer.CategoryNotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusUnprocessableEntity, importCommitResponse{Imported: count, Error: notFound.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, importCommitResponse{Imported: count, Error: "import failed partway"})
		return
	}
	writeJSON(w, http.StatusOK, importCommitResponse{Imported: count})
}
