package stockstatus

import (
	"fmt"

	"simas/model"
)

// Validation is the result of structural checks on one product's stock
// fields. Errors mark data that should never have been stored; warnings are
// advisory and never block anything.
type Validation struct {
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// BulkReport aggregates validation over a product collection.
type BulkReport struct {
	Total            int      `json:"total"`
	Valid            int      `json:"valid"`
	WithErrors       int      `json:"withErrors"`
	WithWarnings     int      `json:"withWarnings"`
	NeedingAttention int      `json:"needingAttention"`
	CriticalIssues   int      `json:"criticalIssues"`
	Recommendations  []string `json:"recommendations"`
}

// ValidateProductStock runs structural checks on a single product.
func ValidateProductStock(p model.Product) Validation {
	v := Validation{
		Errors:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	if p.Stock < 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("Stok %s bernilai negatif (%d).", p.SKU, p.Stock))
	}
	if p.MinStock < 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("Stok minimum %s bernilai negatif (%d).", p.SKU, p.MinStock))
	}
	if p.MaxStock < 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("Stok maksimum %s bernilai negatif (%d).", p.SKU, p.MaxStock))
	}
	if p.MaxStock > 0 && p.MinStock > p.MaxStock {
		v.Errors = append(v.Errors, fmt.Sprintf("Stok minimum %s (%d) melebihi stok maksimum (%d).", p.SKU, p.MinStock, p.MaxStock))
	}

	if p.MinStock == 0 && p.Stock == 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Stok %s habis dan belum memiliki stok minimum.", p.SKU))
		v.Recommendations = append(v.Recommendations, "Segera lakukan restock dan tetapkan stok minimum.")
	}
	if p.MaxStock == 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Stok maksimum %s belum ditetapkan.", p.SKU))
		v.Recommendations = append(v.Recommendations, "Tetapkan stok maksimum agar saran reorder dapat dihitung.")
	}
	if p.MinStock == 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Stok minimum %s belum ditetapkan, ambang darurat %d dipakai.", p.SKU, DefaultEmergencyThreshold))
		v.Recommendations = append(v.Recommendations, "Tetapkan stok minimum agar peringatan stok akurat.")
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// BulkValidate maps ValidateProductStock over a collection and aggregates
// counts plus a de-duplicated recommendation list (set union, first-seen
// order preserved).
func BulkValidate(products []model.Product) BulkReport {
	report := BulkReport{
		Total:           len(products),
		Recommendations: []string{},
	}
	seen := make(map[string]struct{})

	for _, p := range products {
		v := ValidateProductStock(p)
		if v.IsValid {
			report.Valid++
		} else {
			report.WithErrors++
		}
		if len(v.Warnings) > 0 {
			report.WithWarnings++
		}
		if len(v.Errors) > 0 || len(v.Warnings) > 0 {
			report.NeedingAttention++
		}
		if len(v.Errors) > 0 || Classify(p, DefaultEmergencyThreshold) == model.StatusOutOfStock {
			report.CriticalIssues++
		}
		for _, rec := range v.Recommendations {
			if _, ok := seen[rec]; ok {
				continue
			}
			seen[rec] = struct{}{}
			report.Recommendations = append(report.Recommendations, rec)
		}
	}
	return report
}
