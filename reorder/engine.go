// Package reorder computes reorder-point suggestions from recent usage.
package reorder

import (
	"github.com/shopspring/decimal"

	"simas/model"
)

// Engine holds the reorder heuristic parameters. Reorder point =
// average daily usage x lead time x safety coefficient, floored at the
// configured minimum stock when one exists.
type Engine struct {
	coefficient decimal.Decimal
	leadDays    int
	periodDays  int
}

func NewEngine(safetyCoefficient float64, leadTimeDays, periodDays int) *Engine {
	if safetyCoefficient <= 0 {
		safetyCoefficient = 1.5
	}
	if leadTimeDays <= 0 {
		leadTimeDays = 7
	}
	if periodDays <= 0 {
		periodDays = 90
	}
	return &Engine{
		coefficient: decimal.NewFromFloat(safetyCoefficient),
		leadDays:    leadTimeDays,
		periodDays:  periodDays,
	}
}

// PeriodDays is the usage lookback the engine was configured with.
func (e *Engine) PeriodDays() int {
	return e.periodDays
}

type Suggestion struct {
	ProductID     int64  `json:"productId"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Stock         int    `json:"stock"`
	ReorderPoint  string `json:"reorderPoint"`
	AvgDailyUsage string `json:"avgDailyUsage"`
	SuggestedQty  int    `json:"suggestedQty"`
	EstimatedCost string `json:"estimatedCost"`
}

// ReorderPoint computes the threshold below which a product should be
// reordered, given its average daily usage.
func (e *Engine) ReorderPoint(avgDailyUsage decimal.Decimal) decimal.Decimal {
	return avgDailyUsage.Mul(decimal.NewFromInt(int64(e.leadDays))).Mul(e.coefficient)
}

// Evaluate returns a suggestion for p when its stock sits at or below the
// reorder point. The suggested quantity refills to max_stock when one is
// set, otherwise to twice the reorder point.
func (e *Engine) Evaluate(p model.Product, avgDailyUsage float64) (Suggestion, bool) {
	usage := decimal.NewFromFloat(avgDailyUsage)
	point := e.ReorderPoint(usage)

	// A configured minimum acts as the floor of the reorder point.
	if p.MinStock > 0 {
		minPoint := decimal.NewFromInt(int64(p.MinStock))
		if point.LessThan(minPoint) {
			point = minPoint
		}
	}
	if point.IsZero() {
		return Suggestion{}, false
	}

	stock := decimal.NewFromInt(int64(p.Stock))
	if stock.GreaterThan(point) {
		return Suggestion{}, false
	}

	var target decimal.Decimal
	if p.MaxStock > 0 {
		target = decimal.NewFromInt(int64(p.MaxStock))
	} else {
		target = point.Mul(decimal.NewFromInt(2))
	}

	qty := target.Sub(stock).Ceil()
	if qty.LessThanOrEqual(decimal.Zero) {
		return Suggestion{}, false
	}

	cost := qty.Mul(decimal.NewFromFloat(p.UnitPrice))
	return Suggestion{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Stock:         p.Stock,
		ReorderPoint:  point.StringFixed(2),
		AvgDailyUsage: usage.StringFixed(3),
		SuggestedQty:  int(qty.IntPart()),
		EstimatedCost: cost.StringFixed(2),
	}, true
}
