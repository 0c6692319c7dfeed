package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/lazypower/orbit/internal/records"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.records.ExportJSON()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="orbit-export.json"`)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "read body: "+err.Error())
		return
	}

	doc, err := s.records.Import(data, confirmed)
	summary := map[string]any{}
	if doc != nil {
		summary["items"] = len(doc.Items)
		summary["categories"] = len(doc.Categories)
		summary["version"] = doc.Version
	}
	switch {
	case errors.Is(err, records.ErrImportUnconfirmed):
		summary["error"] = "import replaces every record; repeat with confirm=true"
		writeJSON(w, http.StatusConflict, summary)
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("import")
	writeJSON(w, http.StatusOK, summary)
}
