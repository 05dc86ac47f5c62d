package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"simas/model"
)

// GetPSBAnalytics aggregates the PSB order table into the dashboard shape:
// summary counts, per-cluster and per-STO breakdowns, and the last twelve
// monthly buckets.
func GetPSBAnalytics(ctx context.Context, db *sqlx.DB) (*model.PSBAnalytics, error) {
	out := model.EmptyPSBAnalytics()

	err := db.GetContext(ctx, &out.Summary, `
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = 'completed'   THEN 1 ELSE 0 END), 0) AS completed_orders,
			COALESCE(SUM(CASE WHEN status = 'pending'     THEN 1 ELSE 0 END), 0) AS pending_orders,
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS in_progress_orders
		FROM psb_orders`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate psb summary: %w", err)
	}
	if out.Summary.TotalOrders > 0 {
		out.Summary.CompletionRate = float64(out.Summary.CompletedOrders) / float64(out.Summary.TotalOrders) * 100
	}

	err = db.SelectContext(ctx, &out.ClusterStats, `
		SELECT cluster,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed
		FROM psb_orders
		WHERE cluster != ''
		GROUP BY cluster
		ORDER BY total DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cluster stats: %w", err)
	}

	err = db.SelectContext(ctx, &out.StoStats, `
		SELECT sto,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed
		FROM psb_orders
		WHERE sto != ''
		GROUP BY sto
		ORDER BY total DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sto stats: %w", err)
	}

	err = db.SelectContext(ctx, &out.MonthlyTrends, `
		SELECT substr(created_at, 1, 7) AS month,
		       COUNT(*) AS orders,
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed
		FROM psb_orders
		GROUP BY month
		ORDER BY month DESC
		LIMIT 12`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly trends: %w", err)
	}

	return out, nil
}

// DashboardOverview is the /api/analytics payload.
type DashboardOverview struct {
	TotalProducts   int              `json:"totalProducts"`
	TotalStockValue string           `json:"totalStockValue"`
	StatusCounts    map[string]int   `json:"statusCounts"`
	PSBSummary      model.PSBSummary `json:"psbSummary"`
}

// GetDashboardOverview combines inventory and PSB aggregates. Stock value is
// summed with decimal arithmetic; float accumulation drifts on large
// inventories.
func GetDashboardOverview(ctx context.Context, db *sqlx.DB, classify func(model.Product) model.StockStatus) (*DashboardOverview, error) {
	products, err := GetAllProducts(ctx, db, ProductFilters{})
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		TotalProducts: len(products),
		StatusCounts: map[string]int{
			string(model.StatusInStock):    0,
			string(model.StatusLowStock):   0,
			string(model.StatusOutOfStock): 0,
		},
	}

	total := decimal.Zero
	for _, p := range products {
		overview.StatusCounts[string(classify(p))]++
		value := decimal.NewFromFloat(p.UnitPrice).Mul(decimal.NewFromInt(int64(p.Stock)))
		total = total.Add(value)
	}
	overview.TotalStockValue = total.StringFixed(2)

	psb, err := GetPSBAnalytics(ctx, db)
	if err != nil {
		return nil, err
	}
	overview.PSBSummary = psb.Summary

	return overview, nil
}
