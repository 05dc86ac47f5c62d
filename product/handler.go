// Package product exposes the product CRUD and import endpoints.
package product

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"simas/config"
	"simas/database"
	"simas/model"
	"simas/parsers"
	"simas/respond"
	"simas/stockstatus"
)

// ProductsHandler routes GET (list) and POST (create) on /api/products.
// The emergency threshold is read from settings per request so a saved
// config change applies without a restart.
func ProductsHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := settings.Get().Stock.EmergencyThreshold
		switch r.Method {
		case http.MethodGet:
			listProducts(db, threshold, log, w, r)
		case http.MethodPost:
			createProduct(db, threshold, log, w, r)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
		}
	}
}

func listProducts(db *sqlx.DB, threshold int, log *zap.SugaredLogger, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := database.GetAllProducts(r.Context(), db, database.ProductFilters{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Search:   q.Get("q"),
	})
	if err != nil {
		log.Errorw("list products failed", "error", err)
		// Swallow the details: the client renders an empty list, not a crash.
		respond.ErrorData(w, http.StatusInternalServerError, []model.Product{}, "Gagal memuat daftar produk.")
		return
	}

	// Serve the classified status, not the stored one.
	for i := range products {
		products[i].StockStatus = stockstatus.Classify(products[i], threshold)
	}
	respond.JSON(w, http.StatusOK, products)
}

func createProduct(db *sqlx.DB, threshold int, log *zap.SugaredLogger, w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
		return
	}
	if in.SKU == "" || in.Name == "" {
		respond.Error(w, http.StatusBadRequest, "SKU dan nama produk wajib diisi.")
		return
	}

	p := productFromInput(in, threshold)
	if v := stockstatus.ValidateProductStock(p); !v.IsValid {
		respond.ErrorData(w, http.StatusBadRequest, v, "Data stok tidak valid.")
		return
	}

	if existing, err := database.GetProductBySKU(r.Context(), db, in.SKU); err != nil {
		log.Errorw("sku lookup failed", "sku", in.SKU, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Gagal memeriksa SKU.")
		return
	} else if existing != nil {
		respond.Error(w, http.StatusConflict, "SKU sudah terdaftar.")
		return
	}

	if err := database.InsertProduct(r.Context(), db, &p); err != nil {
		log.Errorw("insert product failed", "sku", in.SKU, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan produk.")
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

// ProductByIDHandler routes GET/PUT/DELETE on /api/products/{id}.
func ProductByIDHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := settings.Get().Stock.EmergencyThreshold
		idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "ID produk tidak valid.")
			return
		}

		switch r.Method {
		case http.MethodGet:
			p, err := database.GetProductByID(r.Context(), db, id)
			if err != nil {
				log.Errorw("get product failed", "id", id, "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal memuat produk.")
				return
			}
			if p == nil {
				respond.Error(w, http.StatusNotFound, "Produk tidak ditemukan.")
				return
			}
			p.StockStatus = stockstatus.Classify(*p, threshold)
			respond.JSON(w, http.StatusOK, p)

		case http.MethodPut:
			var in model.ProductInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				respond.Error(w, http.StatusBadRequest, "Permintaan tidak valid.")
				return
			}
			p := productFromInput(in, threshold)
			p.ID = id
			if v := stockstatus.ValidateProductStock(p); !v.IsValid {
				respond.ErrorData(w, http.StatusBadRequest, v, "Data stok tidak valid.")
				return
			}
			if err := database.UpdateProduct(r.Context(), db, &p); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					respond.Error(w, http.StatusNotFound, "Produk tidak ditemukan.")
					return
				}
				log.Errorw("update product failed", "id", id, "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal memperbarui produk.")
				return
			}
			respond.JSON(w, http.StatusOK, p)

		case http.MethodDelete:
			if err := database.DeleteProduct(r.Context(), db, id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					respond.Error(w, http.StatusNotFound, "Produk tidak ditemukan.")
					return
				}
				log.Errorw("delete product failed", "id", id, "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal menghapus produk.")
				return
			}
			respond.Message(w, http.StatusOK, "Produk dihapus.")

		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
		}
	}
}

// ValidateSKUHandler checks SKU availability. Sits behind bearer auth.
func ValidateSKUHandler(db *sqlx.DB, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := strings.TrimSpace(r.URL.Query().Get("sku"))
		if sku == "" {
			respond.Error(w, http.StatusBadRequest, "Parameter sku wajib diisi.")
			return
		}
		existing, err := database.GetProductBySKU(r.Context(), db, sku)
		if err != nil {
			log.Errorw("sku validation failed", "sku", sku, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal memeriksa SKU.")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"sku":       sku,
			"available": existing == nil,
		})
	}
}

// ImportCSVHandler bulk-upserts products from an uploaded CSV in one
// transaction; any bad row rolls back the whole file.
func ImportCSVHandler(db *sqlx.DB, settings *config.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := settings.Get().Stock.EmergencyThreshold
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "File CSV tidak ditemukan: "+err.Error())
			return
		}
		defer file.Close()

		inputs, err := parsers.ParseProductCSV(file)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Gagal membaca CSV: "+err.Error())
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Errorw("begin import tx failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal memulai transaksi.")
			return
		}
		defer tx.Rollback()

		for _, in := range inputs {
			p := productFromInput(in, threshold)
			if err := database.UpsertProductInTx(tx, &p); err != nil {
				log.Errorw("import upsert failed", "sku", in.SKU, "error", err)
				respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan produk "+in.SKU+".")
				return
			}
		}
		if err := tx.Commit(); err != nil {
			log.Errorw("commit import failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Gagal menyimpan impor.")
			return
		}

		respond.JSONMessage(w, http.StatusOK, map[string]int{"imported": len(inputs)}, "Impor selesai.")
	}
}

func productFromInput(in model.ProductInput, threshold int) model.Product {
	p := model.Product{
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		MaxStock:  in.MaxStock,
		UnitPrice: in.UnitPrice,
		Location:  in.Location,
	}
	p.StockStatus = stockstatus.Classify(p, threshold)
	return p
}
