package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"simas/auth"
	"simas/config"
	"simas/respond"
)

// ConfigHandler routes GET (read) and POST (save) on /api/config. Saving
// requires the bearer token; the auth token itself never leaves the server.
func ConfigHandler(app *App, log *zap.SugaredLogger) http.HandlerFunc {
	save := auth.Bearer(app.Cfg.Auth.Token, SaveConfigHandler(app, log))
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getConfig(app, w)
		case http.MethodPost:
			save(w, r)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
		}
	}
}

func getConfig(app *App, w http.ResponseWriter) {
	cfg := app.Settings.Get()
	respond.JSON(w, http.StatusOK, map[string]any{
		"appName":            cfg.App.Name,
		"emergencyThreshold": cfg.Stock.EmergencyThreshold,
		"analyticsCacheTTL":  cfg.Analytics.CacheTTL.String(),
		"alertDedupWindow":   cfg.Alert.DedupWindow.String(),
		"reorder": map[string]any{
			"periodDays":        cfg.Reorder.PeriodDays,
			"leadTimeDays":      cfg.Reorder.LeadTimeDays,
			"safetyCoefficient": cfg.Reorder.SafetyCoefficient,
		},
	})
}

// configUpdate carries the runtime-tunable settings. Pointer fields so an
// omitted key keeps the current value.
type configUpdate struct {
	EmergencyThreshold       *int     `json:"emergencyThreshold"`
	ReorderPeriodDays        *int     `json:"reorderPeriodDays"`
	ReorderLeadTimeDays      *int     `json:"reorderLeadTimeDays"`
	ReorderSafetyCoefficient *float64 `json:"reorderSafetyCoefficient"`
}

// SaveConfigHandler validates and persists the submitted settings. They take
// effect on the next request; handlers read them through the settings store.
func SaveConfigHandler(app *App, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in configUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
			return
		}

		err := app.Settings.Update(func(c *config.Config) {
			if in.EmergencyThreshold != nil {
				c.Stock.EmergencyThreshold = *in.EmergencyThreshold
			}
			if in.ReorderPeriodDays != nil {
				c.Reorder.PeriodDays = *in.ReorderPeriodDays
			}
			if in.ReorderLeadTimeDays != nil {
				c.Reorder.LeadTimeDays = *in.ReorderLeadTimeDays
			}
			if in.ReorderSafetyCoefficient != nil {
				c.Reorder.SafetyCoefficient = *in.ReorderSafetyCoefficient
			}
		})
		if err != nil {
			if errors.Is(err, config.ErrPersist) {
				log.Errorw("config save failed", "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan pengaturan.")
				return
			}
			respond.Error(w, http.StatusBadRequest, "Pengaturan tidak valid: "+err.Error())
			return
		}

		log.Infow("config saved", "threshold", app.Settings.Get().Stock.EmergencyThreshold)
		respond.Message(w, http.StatusOK, "Pengaturan disimpan.")
	}
}
