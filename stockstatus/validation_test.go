package stockstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simas/model"
)

func TestValidateProductStockErrors(t *testing.T) {
	v := ValidateProductStock(model.Product{SKU: "A", Stock: -1, MinStock: -2, MaxStock: -3})
	assert.False(t, v.IsValid)
	assert.Len(t, v.Errors, 3)

	v = ValidateProductStock(model.Product{SKU: "B", Stock: 10, MinStock: 20, MaxStock: 15})
	assert.False(t, v.IsValid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "melebihi")
}

func TestValidateProductStockWarnings(t *testing.T) {
	// Zero min stock with zero stock: three warnings (empty+no-min, no max, no min).
	v := ValidateProductStock(model.Product{SKU: "C", Stock: 0, MinStock: 0, MaxStock: 0})
	assert.True(t, v.IsValid)
	assert.Len(t, v.Warnings, 3)
	assert.NotEmpty(t, v.Recommendations)

	// Fully configured product: clean.
	v = ValidateProductStock(model.Product{SKU: "D", Stock: 30, MinStock: 10, MaxStock: 100})
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Warnings)
	assert.Empty(t, v.Errors)
}

func TestBulkValidate(t *testing.T) {
	products := []model.Product{
		{SKU: "OK", Stock: 30, MinStock: 10, MaxStock: 100},
		{SKU: "NEG", Stock: -5, MinStock: 10, MaxStock: 100},
		{SKU: "EMPTY", Stock: 0, MinStock: 0, MaxStock: 0},
		{SKU: "NOMAX", Stock: 20, MinStock: 5, MaxStock: 0},
	}

	report := BulkValidate(products)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Valid)
	assert.Equal(t, 1, report.WithErrors)
	assert.Equal(t, 2, report.WithWarnings)
	assert.Equal(t, 3, report.NeedingAttention)
	// NEG has errors, EMPTY classifies out_of_stock.
	assert.Equal(t, 2, report.CriticalIssues)
}

func TestBulkValidateDeduplicatesRecommendations(t *testing.T) {
	products := []model.Product{
		{SKU: "A", Stock: 0, MinStock: 0, MaxStock: 0},
		{SKU: "B", Stock: 0, MinStock: 0, MaxStock: 0},
	}
	report := BulkValidate(products)

	seen := map[string]int{}
	for _, rec := range report.Recommendations {
		seen[rec]++
	}
	for rec, n := range seen {
		assert.Equal(t, 1, n, "recommendation duplicated: %s", rec)
	}
}
