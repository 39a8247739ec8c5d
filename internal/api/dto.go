package api

import "github.com/EdwardDiehl/file-indexer/internal/engine"

// SearchResult is a single search hit (aliased from the engine layer).
type SearchResult = engine.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// FileResponse is the response payload for a single indexed file.
type FileResponse = engine.FileRecord

// EventPayload is the data body of one SSE message.
type EventPayload struct {
	Path string `json:"path"`
}
