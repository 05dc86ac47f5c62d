package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"simas/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Now returns the canonical timestamp string stored in the database.
func Now() string {
	return time.Now().Format(timeLayout)
}

type ProductFilters struct {
	Category string
	Status   string
	Search   string
}

func GetAllProducts(ctx context.Context, db *sqlx.DB, f ProductFilters) ([]model.Product, error) {
	query := `SELECT * FROM products WHERE 1=1`
	args := []any{}

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Status != "" {
		query += ` AND stock_status = ?`
		args = append(args, f.Status)
	}
	if f.Search != "" {
		query += ` AND (name LIKE ? OR sku LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY name`

	products := []model.Product{}
	if err := db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func GetProductByID(ctx context.Context, db *sqlx.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

func GetProductBySKU(ctx context.Context, db *sqlx.DB, sku string) (*model.Product, error) {
	var p model.Product
	err := db.GetContext(ctx, &p, `SELECT * FROM products WHERE sku = ?`, sku)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by sku %s: %w", sku, err)
	}
	return &p, nil
}

// InsertProduct stores a new product. stock_status must already be the
// classified value; the database never recomputes it.
func InsertProduct(ctx context.Context, db *sqlx.DB, p *model.Product) error {
	now := Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := db.NamedExecContext(ctx, `
		INSERT INTO products (sku, name, category, stock, min_stock, max_stock, stock_status, unit_price, location, created_at, updated_at)
		VALUES (:sku, :name, :category, :stock, :min_stock, :max_stock, :stock_status, :unit_price, :location, :created_at, :updated_at)`, p)
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.SKU, err)
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

func UpdateProduct(ctx context.Context, db *sqlx.DB, p *model.Product) error {
	p.UpdatedAt = Now()
	res, err := db.NamedExecContext(ctx, `
		UPDATE products
		SET sku = :sku, name = :name, category = :category, stock = :stock,
		    min_stock = :min_stock, max_stock = :max_stock, stock_status = :stock_status,
		    unit_price = :unit_price, location = :location, updated_at = :updated_at
		WHERE id = :id`, p)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteProduct(ctx context.Context, db *sqlx.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertProductInTx inserts or refreshes a product by SKU during CSV import.
func UpsertProductInTx(tx *sqlx.Tx, p *model.Product) error {
	now := Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := tx.NamedExec(`
		INSERT INTO products (sku, name, category, stock, min_stock, max_stock, stock_status, unit_price, location, created_at, updated_at)
		VALUES (:sku, :name, :category, :stock, :min_stock, :max_stock, :stock_status, :unit_price, :location, :created_at, :updated_at)
		ON CONFLICT(sku) DO UPDATE SET
		    name = excluded.name, category = excluded.category, stock = excluded.stock,
		    min_stock = excluded.min_stock, max_stock = excluded.max_stock,
		    stock_status = excluded.stock_status, unit_price = excluded.unit_price,
		    location = excluded.location, updated_at = excluded.updated_at`, p)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
	}
	return nil
}
