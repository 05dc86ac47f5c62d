// Package stock exposes stock adjustment and the validation summary the
// alert banner renders.
package stock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"simas/config"
	"simas/database"
	"simas/model"
	"simas/respond"
	"simas/stockstatus"
)

type adjustRequest struct {
	ProductID   int64  `json:"productId"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason"`
	ReferenceNo string `json:"referenceNo"`
}

// AdjustStockHandler applies a delta to one product inside a transaction:
// movement row, stock update, and status reclassification together.
func AdjustStockHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := settings.Get().Stock.EmergencyThreshold
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
			return
		}

		var req adjustRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
			return
		}
		if req.ProductID <= 0 || req.Delta == 0 {
			respond.Error(w, http.StatusBadRequest, "productId dan delta wajib diisi.")
			return
		}
		if req.ReferenceNo == "" {
			req.ReferenceNo = "ADJ-" + uuid.NewString()[:8]
		}

		p, err := database.GetProductByID(r.Context(), db, req.ProductID)
		if err != nil {
			log.Errorw("adjust lookup failed", "id", req.ProductID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal memuat produk.")
			return
		}
		if p == nil {
			respond.Error(w, http.StatusNotFound, "Produk tidak ditemukan.")
			return
		}

		// Classify against the post-adjustment quantity.
		projected := *p
		projected.Stock += req.Delta
		newStatus := stockstatus.Classify(projected, threshold)

		tx, err := db.Beginx()
		if err != nil {
			log.Errorw("begin adjust tx failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal memulai transaksi.")
			return
		}
		defer tx.Rollback()

		newStock, err := database.AdjustStockInTx(tx, req.ProductID, req.Delta, req.Reason, req.ReferenceNo, newStatus)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Penyesuaian stok gagal: "+err.Error())
			return
		}
		if err := tx.Commit(); err != nil {
			log.Errorw("commit adjust failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan penyesuaian.")
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"productId":   req.ProductID,
			"stock":       newStock,
			"stockStatus": newStatus,
			"referenceNo": req.ReferenceNo,
		})
	}
}

// summaryResponse feeds the alert banner: validation aggregate plus the
// per-status counts it displays.
type summaryResponse struct {
	Report              stockstatus.BulkReport `json:"report"`
	OutOfStock          int                    `json:"outOfStock"`
	LowStock            int                    `json:"lowStock"`
	NeedsThresholdSetup int                    `json:"needsThresholdSetup"`
}

func StockSummaryHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := settings.Get().Stock.EmergencyThreshold
		products, err := database.GetAllProducts(r.Context(), db, database.ProductFilters{})
		if err != nil {
			log.Errorw("stock summary failed", "error", err)
			respond.ErrorData(w, http.StatusInternalServerError, summaryResponse{}, "Gagal memuat ringkasan stok.")
			return
		}

		resp := summaryResponse{Report: stockstatus.BulkValidate(products)}
		for _, p := range products {
			switch stockstatus.Classify(p, threshold) {
			case model.StatusOutOfStock:
				resp.OutOfStock++
			case model.StatusLowStock:
				resp.LowStock++
			}
			if p.Stock > 0 && stockstatus.NeedsThresholdSetup(p, threshold) {
				resp.NeedsThresholdSetup++
			}
		}
		respond.JSON(w, http.StatusOK, resp)
	}
}

// MovementsHandler returns the movement history for one product.
func MovementsHandler(db *sqlx.DB, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r.URL.Query().Get("productId"))
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "productId tidak valid.")
			return
		}
		movements, err := database.GetMovements(db, id, 0)
		if err != nil {
			log.Errorw("list movements failed", "id", id, "error", err)
			respond.ErrorData(w, http.StatusInternalServerError, []model.StockMovement{}, "Gagal memuat riwayat stok.")
			return
		}
		respond.JSON(w, http.StatusOK, movements)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}
