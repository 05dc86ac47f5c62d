package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"simas/model"
)

type PSBFilters struct {
	Status  string
	Cluster string
	STO     string
}

func GetPSBOrders(ctx context.Context, db *sqlx.DB, f PSBFilters) ([]model.PSBOrder, error) {
	query := `SELECT * FROM psb_orders WHERE 1=1`
	args := []any{}

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Cluster != "" {
		query += ` AND cluster = ?`
		args = append(args, f.Cluster)
	}
	if f.STO != "" {
		query += ` AND sto = ?`
		args = append(args, f.STO)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	orders := []model.PSBOrder{}
	if err := db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list psb orders: %w", err)
	}
	return orders, nil
}

func GetPSBOrderByNo(ctx context.Context, db *sqlx.DB, orderNo string) (*model.PSBOrder, error) {
	var o model.PSBOrder
	err := db.GetContext(ctx, &o, `SELECT * FROM psb_orders WHERE order_no = ?`, orderNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get psb order %s: %w", orderNo, err)
	}
	return &o, nil
}

// InsertPSBOrder numbers the order from the PSB sequence and stores it in one
// transaction.
func InsertPSBOrder(ctx context.Context, db *sqlx.DB, o *model.PSBOrder) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	orderNo, err := NextSequenceInTx(tx, SeqPSBOrder, "PSB", 6)
	if err != nil {
		return err
	}
	o.OrderNo = orderNo

	now := Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = model.PSBPending
	}

	res, err := tx.NamedExec(`
		INSERT INTO psb_orders (order_no, customer_name, address, cluster, sto, status, technician, created_at, updated_at, completed_at)
		VALUES (:order_no, :customer_name, :address, :cluster, :sto, :status, :technician, :created_at, :updated_at, :completed_at)`, o)
	if err != nil {
		return fmt.Errorf("failed to insert psb order: %w", err)
	}
	o.ID, _ = res.LastInsertId()

	return tx.Commit()
}

// UpdatePSBStatus moves an order to a new status. Completing stamps
// completed_at; leaving completed clears it.
func UpdatePSBStatus(ctx context.Context, db *sqlx.DB, orderNo string, status model.PSBStatus) error {
	now := Now()
	completedAt := ""
	if status == model.PSBCompleted {
		completedAt = now
	}

	res, err := db.ExecContext(ctx, `
		UPDATE psb_orders SET status = ?, completed_at = ?, updated_at = ? WHERE order_no = ?`,
		string(status), completedAt, now, orderNo)
	if err != nil {
		return fmt.Errorf("failed to update psb order %s: %w", orderNo, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
