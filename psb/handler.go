// Package psb exposes PSB order tracking and the cached analytics endpoint.
package psb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"simas/analytics"
	"simas/database"
	"simas/model"
	"simas/respond"
)

// OrdersHandler routes GET (list) and POST (create) on /api/psb-orders.
func OrdersHandler(db *sqlx.DB, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			orders, err := database.GetPSBOrders(r.Context(), db, database.PSBFilters{
				Status:  q.Get("status"),
				Cluster: q.Get("cluster"),
				STO:     q.Get("sto"),
			})
			if err != nil {
				log.Errorw("list psb orders failed", "error", err)
				respond.ErrorData(w, http.StatusInternalServerError, []model.PSBOrder{}, "Gagal memuat order PSB.")
				return
			}
			respond.JSON(w, http.StatusOK, orders)

		case http.MethodPost:
			var o model.PSBOrder
			if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
				respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
				return
			}
			if o.CustomerName == "" {
				respond.Error(w, http.StatusBadRequest, "Nama pelanggan wajib diisi.")
				return
			}
			if o.Status != "" && !o.Status.Valid() {
				respond.Error(w, http.StatusBadRequest, "Status order tidak dikenal.")
				return
			}
			if err := database.InsertPSBOrder(r.Context(), db, &o); err != nil {
				log.Errorw("insert psb order failed", "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan order PSB.")
				return
			}
			respond.JSON(w, http.StatusCreated, o)

		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
		}
	}
}

// UpdateStatusHandler moves an order to a new status.
func UpdateStatusHandler(db *sqlx.DB, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
			return
		}

		var req struct {
			OrderNo string          `json:"orderNo"`
			Status  model.PSBStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderNo == "" {
			respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
			return
		}
		if !req.Status.Valid() {
			respond.Error(w, http.StatusBadRequest, "Status order tidak dikenal.")
			return
		}

		if err := database.UpdatePSBStatus(r.Context(), db, req.OrderNo, req.Status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respond.Error(w, http.StatusNotFound, "Order PSB tidak ditemukan.")
				return
			}
			log.Errorw("update psb status failed", "orderNo", req.OrderNo, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal memperbarui status order.")
			return
		}
		respond.Message(w, http.StatusOK, "Status order diperbarui.")
	}
}

// AnalyticsHandler serves the cached aggregate. ?force=1 bypasses the TTL.
// Failures still carry a zeroed, well-formed payload.
func AnalyticsHandler(manager *analytics.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := r.URL.Query().Get("force") == "1" || r.URL.Query().Get("force") == "true"

		data, err := manager.Fetch(r.Context(), force)
		switch {
		case err == nil:
			respond.JSON(w, http.StatusOK, data)
		case errors.Is(err, analytics.ErrNoData):
			// Valid-but-empty is not a failure; the client stays silent.
			respond.JSONMessage(w, http.StatusOK, data, "no_data")
		case errors.Is(err, analytics.ErrUnreachable):
			respond.ErrorData(w, http.StatusBadGateway, data, analytics.UnreachableMessage)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Caller went away; nothing useful to write.
		default:
			respond.ErrorData(w, http.StatusInternalServerError, data, "Gagal memuat analitik PSB.")
		}
	}
}
