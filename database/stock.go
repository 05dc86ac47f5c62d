package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"simas/model"
)

// AdjustStockInTx applies a stock delta: one movement row plus the updated
// product row with its freshly classified status. The caller classifies (the
// database layer does not know the emergency threshold) and owns the tx.
func AdjustStockInTx(tx *sqlx.Tx, productID int64, delta int, reason, referenceNo string, newStatus model.StockStatus) (int, error) {
	var current int
	err := tx.Get(&current, `SELECT stock FROM products WHERE id = ?`, productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("product %d not found", productID)
		}
		return 0, fmt.Errorf("failed to read stock for product %d: %w", productID, err)
	}

	newStock := current + delta
	if newStock < 0 {
		return 0, fmt.Errorf("stock for product %d would become negative (%d)", productID, newStock)
	}

	now := Now()
	if _, err := tx.Exec(`
		INSERT INTO stock_movements (product_id, delta, reason, reference_no, created_at)
		VALUES (?, ?, ?, ?, ?)`, productID, delta, reason, referenceNo, now); err != nil {
		return 0, fmt.Errorf("failed to record stock movement for product %d: %w", productID, err)
	}

	if _, err := tx.Exec(`
		UPDATE products SET stock = ?, stock_status = ?, updated_at = ? WHERE id = ?`,
		newStock, string(newStatus), now, productID); err != nil {
		return 0, fmt.Errorf("failed to update stock for product %d: %w", productID, err)
	}

	return newStock, nil
}

// GetMovements returns the movement history for one product, newest first.
func GetMovements(db *sqlx.DB, productID int64, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	movements := []model.StockMovement{}
	err := db.Select(&movements, `
		SELECT * FROM stock_movements WHERE product_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for product %d: %w", productID, err)
	}
	return movements, nil
}

// AverageDailyUsage sums outbound quantity (negative deltas) over the period
// and divides by the period length. Returns 0 when there is no usage.
func AverageDailyUsage(db *sqlx.DB, productID int64, periodDays int) (float64, error) {
	if periodDays <= 0 {
		periodDays = 90
	}
	since := time.Now().AddDate(0, 0, -periodDays).Format(timeLayout)

	var totalOut sql.NullFloat64
	err := db.Get(&totalOut, `
		SELECT SUM(-delta) FROM stock_movements
		WHERE product_id = ? AND delta < 0 AND created_at >= ?`, productID, since)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to calculate usage for product %d: %w", productID, err)
	}
	return totalOut.Float64 / float64(periodDays), nil
}
