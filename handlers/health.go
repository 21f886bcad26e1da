// handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func Health(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if env.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := env.DB.PingContext(ctx); err != nil {
				env.logger().Warn("health check: database unreachable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}
}
