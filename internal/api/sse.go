package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EdwardDiehl/file-indexer/internal/engine"
)

// SSEHandler streams the engine's file events as Server-Sent Events. Each
// event is framed as "event: file.<kind>" with a JSON payload carrying the
// path. The stream ends when the client disconnects or the engine closes.
func SSEHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for ev := range eng.WatchChanges(r.Context()) {
			payload, err := json.Marshal(EventPayload{Path: ev.Path})
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: file.%s\ndata: %s\n\n", ev.Kind, payload)
			flusher.Flush()
		}
	})
}
