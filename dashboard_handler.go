package main

import (
	"net/http"

	"go.uber.org/zap"

	"simas/database"
	"simas/model"
	"simas/respond"
	"simas/stockstatus"
)

// DashboardHandler serves the combined inventory + PSB overview.
func DashboardHandler(app *App, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := app.Settings.Get().Stock.EmergencyThreshold
		overview, err := database.GetDashboardOverview(r.Context(), app.DB, func(p model.Product) model.StockStatus {
			return stockstatus.Classify(p, threshold)
		})
		if err != nil {
			log.Errorw("dashboard overview failed", "error", err)
			respond.ErrorData(w, http.StatusInternalServerError, database.DashboardOverview{}, "Gagal memuat ringkasan dashboard.")
			return
		}
		respond.JSON(w, http.StatusOK, overview)
	}
}
