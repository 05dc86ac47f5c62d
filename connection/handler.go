package connection

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"simas/respond"
)

// HealthHandler probes the database through the connection manager and
// reports the resulting state. 503 when the probe fails.
func HealthHandler(m *Manager, db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		ok := m.TestConnection(ctx, func(ctx context.Context) error {
			return db.PingContext(ctx)
		})

		if !ok {
			respond.ErrorData(w, http.StatusServiceUnavailable, m.State(), "Database tidak dapat dijangkau.")
			return
		}
		respond.JSON(w, http.StatusOK, m.State())
	}
}
