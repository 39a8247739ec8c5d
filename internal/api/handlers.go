package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/EdwardDiehl/file-indexer/internal/engine"
)

// Handler holds API route handlers.
type Handler struct {
	eng *engine.Engine
}

// NewHandler creates a new Handler.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{eng: eng}
}

// filePath extracts the target path from the URL (everything after
// /api/files/). Supports encoded slashes (e.g. tmp%2Fd%2Fa.txt).
func filePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	// The wildcard strips the leading slash of an absolute path; restore it.
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}
	return decoded
}

// Search handles GET /api/search?q=<terms>. Terms are whitespace separated;
// results are ranked by the number of distinct terms matched.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	terms := strings.Fields(r.URL.Query().Get("q"))
	if len(terms) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}

	results := h.eng.SearchAll(terms)
	if results == nil {
		results = []SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}

// GetFile handles GET /api/files/*: the forward-map record for one path.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	rec, ok := h.eng.Lookup(path)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
