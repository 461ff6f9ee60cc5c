package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/logger"
)

type eventPayload struct {
	Count int `json:"count"`
}

// Events serves the change feed as server-sent events. Each store
// mutation produces one "change" event carrying the new collection size;
// views react by refetching their derived views, replacing their local
// snapshot outright.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
			return
		}
		if d.Notifier == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "change feed unavailable"})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		snapshots, cancel := d.Notifier.Subscribe()
		defer cancel()

		d.Logger.Debug("event stream opened",
			logger.String("remote_ip", r.RemoteAddr))

		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				data, err := json.Marshal(eventPayload{Count: len(snap.Records)})
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				d.Logger.Debug("event stream closed",
					logger.String("remote_ip", r.RemoteAddr))
				return
			}
		}
	}
}
