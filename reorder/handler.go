package reorder

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"simas/config"
	"simas/database"
	"simas/respond"
)

// SuggestionsHandler evaluates every product against the reorder heuristic.
// The engine is built per request from the current settings, so saved
// changes to the reorder parameters take effect immediately.
func SuggestionsHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := settings.Get()
		engine := NewEngine(cfg.Reorder.SafetyCoefficient, cfg.Reorder.LeadTimeDays, cfg.Reorder.PeriodDays)

		products, err := database.GetAllProducts(r.Context(), db, database.ProductFilters{})
		if err != nil {
			log.Errorw("reorder listing failed", "error", err)
			respond.ErrorData(w, http.StatusInternalServerError, []Suggestion{}, "Gagal memuat saran reorder.")
			return
		}

		suggestions := []Suggestion{}
		for _, p := range products {
			usage, err := database.AverageDailyUsage(db, p.ID, engine.PeriodDays())
			if err != nil {
				log.Warnw("usage calculation failed", "sku", p.SKU, "error", err)
				continue
			}
			if s, ok := engine.Evaluate(p, usage); ok {
				suggestions = append(suggestions, s)
			}
		}
		respond.JSON(w, http.StatusOK, suggestions)
	}
}
