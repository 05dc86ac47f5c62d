package alert

import (
	"encoding/json"
	"net/http"

	"simas/respond"
)

func ListAlertsHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, m.Alerts())
	}
}

func DismissAlertHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
			return
		}
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			respond.Error(w, http.StatusBadRequest, "ID peringatan wajib diisi.")
			return
		}
		if !m.Dismiss(req.ID) {
			respond.Error(w, http.StatusNotFound, "Peringatan tidak ditemukan.")
			return
		}
		respond.Message(w, http.StatusOK, "Peringatan ditutup.")
	}
}
