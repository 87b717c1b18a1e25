package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/doggy-date/internal/api/response"
)

// Pinger is anything whose connectivity can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports readiness, including Redis when rate limiting is on
func ReadyCheck(redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "redis not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
