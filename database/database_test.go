package database_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simas/database"
	"simas/loader"
	"simas/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// :memory: is per-connection; keep the pool at one so every query sees
	// the same database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

func TestProductCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := &model.Product{SKU: "ONT-001", Name: "ONT ZTE F670L", Category: "perangkat", Stock: 25, MinStock: 10, MaxStock: 100, StockStatus: model.StatusInStock, UnitPrice: 450000}
	require.NoError(t, database.InsertProduct(ctx, db, p))
	assert.NotZero(t, p.ID)

	got, err := database.GetProductBySKU(ctx, db, "ONT-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	got.Stock = 30
	require.NoError(t, database.UpdateProduct(ctx, db, got))

	all, err := database.GetAllProducts(ctx, db, database.ProductFilters{Search: "ZTE"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 30, all[0].Stock)

	missing, err := database.GetProductBySKU(ctx, db, "TIDAK-ADA")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, database.DeleteProduct(ctx, db, p.ID))
}

func TestAdjustStockRecordsMovement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := &model.Product{SKU: "KBL-01", Name: "Kabel Dropcore", Stock: 20, MinStock: 5, StockStatus: model.StatusInStock}
	require.NoError(t, database.InsertProduct(ctx, db, p))

	tx, err := db.Beginx()
	require.NoError(t, err)
	newStock, err := database.AdjustStockInTx(tx, p.ID, -15, "instalasi", "PSB000001", model.StatusLowStock)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, 5, newStock)

	got, err := database.GetProductByID(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, model.StatusLowStock, got.StockStatus)

	movements, err := database.GetMovements(db, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -15, movements[0].Delta)

	// Going negative rolls the whole adjustment back.
	tx, err = db.Beginx()
	require.NoError(t, err)
	_, err = database.AdjustStockInTx(tx, p.ID, -100, "salah input", "", model.StatusOutOfStock)
	require.Error(t, err)
	tx.Rollback()

	got, err = database.GetProductByID(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestPSBOrderSequenceAndAnalytics(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	orders := []model.PSBOrder{
		{CustomerName: "Budi", Cluster: "Cibubur", STO: "CBN", Status: model.PSBCompleted},
		{CustomerName: "Sari", Cluster: "Cibubur", STO: "CBN", Status: model.PSBPending},
		{CustomerName: "Agus", Cluster: "Depok", STO: "DPK", Status: model.PSBInProgress},
	}
	for i := range orders {
		require.NoError(t, database.InsertPSBOrder(ctx, db, &orders[i]))
	}
	assert.Equal(t, "PSB000001", orders[0].OrderNo)
	assert.Equal(t, "PSB000003", orders[2].OrderNo)

	require.NoError(t, database.UpdatePSBStatus(ctx, db, orders[1].OrderNo, model.PSBCompleted))

	analytics, err := database.GetPSBAnalytics(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.Summary.TotalOrders)
	assert.Equal(t, 2, analytics.Summary.CompletedOrders)
	assert.Equal(t, 1, analytics.Summary.InProgressOrders)
	assert.InDelta(t, 66.66, analytics.Summary.CompletionRate, 0.1)

	require.Len(t, analytics.ClusterStats, 2)
	assert.Equal(t, "Cibubur", analytics.ClusterStats[0].Cluster)
	assert.Equal(t, 2, analytics.ClusterStats[0].Total)

	completed, err := database.GetPSBOrderByNo(ctx, db, orders[1].OrderNo)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.CompletedAt)
}

func TestDashboardOverview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, p := range []model.Product{
		{SKU: "A", Name: "A", Stock: 10, MinStock: 5, UnitPrice: 1000.50},
		{SKU: "B", Name: "B", Stock: 0, MinStock: 5, UnitPrice: 2000},
	} {
		p := p
		require.NoError(t, database.InsertProduct(ctx, db, &p))
	}

	overview, err := database.GetDashboardOverview(ctx, db, func(p model.Product) model.StockStatus {
		if p.Stock == 0 {
			return model.StatusOutOfStock
		}
		return model.StatusInStock
	})
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalProducts)
	assert.Equal(t, "10005.00", overview.TotalStockValue)
	assert.Equal(t, 1, overview.StatusCounts[string(model.StatusOutOfStock)])
}
