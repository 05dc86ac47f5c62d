// Package stockstatus classifies product inventory levels and validates
// stock threshold configuration. Classification is pure: the same product
// always yields the same status.
package stockstatus

import "simas/model"

// DefaultEmergencyThreshold is the low-stock cutoff applied when a product
// has no explicit minimum configured.
const DefaultEmergencyThreshold = 5

// Classify computes the stock status of a product from (stock, min_stock).
// The stored StockStatus field is advisory: it is consulted only when the
// computed level is healthy, never when stock is zero or at/below threshold.
//
// Priority order, first match wins:
//  1. stock == 0                                -> out_of_stock
//  2. minStock > 0 and 0 < stock <= minStock    -> low_stock
//  3. minStock == 0 and 0 < stock <= threshold  -> low_stock
//  4. stock > max(minStock, 1) and stored status valid -> stored status
//  5. otherwise                                 -> in_stock
func Classify(p model.Product, emergencyThreshold int) model.StockStatus {
	if emergencyThreshold <= 0 {
		emergencyThreshold = DefaultEmergencyThreshold
	}

	switch {
	case p.Stock <= 0:
		return model.StatusOutOfStock
	case p.MinStock > 0 && p.Stock <= p.MinStock:
		return model.StatusLowStock
	case p.MinStock == 0 && p.Stock <= emergencyThreshold:
		return model.StatusLowStock
	}

	// Healthy by our thresholds. Let a richer server-side signal through.
	floor := p.MinStock
	if floor < 1 {
		floor = 1
	}
	if p.Stock > floor && p.StockStatus.Valid() {
		return p.StockStatus
	}
	return model.StatusInStock
}

// NeedsThresholdSetup reports whether a product is running on the emergency
// threshold because no minimum stock was ever configured.
func NeedsThresholdSetup(p model.Product, emergencyThreshold int) bool {
	if emergencyThreshold <= 0 {
		emergencyThreshold = DefaultEmergencyThreshold
	}
	return p.MinStock == 0 && p.Stock <= emergencyThreshold
}
