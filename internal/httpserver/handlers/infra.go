package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marker-app/marker/internal/httpserver/deps"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Bookmarks *int   `json:"bookmarks,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Impact    string `json:"impact,omitempty"`
	Error     string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode        string                     `json:"mode"`
	Subscribers int                        `json:"subscribers"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports the health of the service's collaborators: the Redis
// store, the change feed, and whether the seed import is configured.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redisStatus := checkRedis(d)

		storeStatus := componentStatus{OK: redisStatus.OK}
		if redisStatus.OK {
			if records, err := d.Bookmarks.List(r.Context()); err == nil {
				count := len(records)
				storeStatus.Bookmarks = &count
			} else {
				storeStatus.OK = false
				storeStatus.Error = err.Error()
			}
		}

		seedStatus := componentStatus{OK: true, Mode: "disabled"}
		if d.SeedFile != "" {
			seedStatus.Mode = "periodic-merge"
		}

		components := map[string]componentStatus{
			"redis": redisStatus,
			"store": storeStatus,
			"seed":  seedStatus,
		}

		subscribers := 0
		if d.Notifier != nil {
			subscribers = d.Notifier.SubscriberCount()
		}

		mode := "ok"
		if !redisStatus.OK || !storeStatus.OK {
			mode = "degraded"
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:        mode,
			Subscribers: subscribers,
			Components:  components,
		})
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "read-only-empty-collection",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "read-only-empty-collection",
			Error:  "timeout",
		}
	}

	return componentStatus{OK: true, Mode: "optimal"}
}
