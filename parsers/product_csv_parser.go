// Package parsers reads the CSV files uploaded through the import endpoints.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"simas/model"
)

// ParseProductCSV reads a product import file. Required columns: sku, name.
// Optional: category, stock, min_stock, max_stock, unit_price, location.
// Numeric fields left blank default to zero; malformed numbers fail the row
// with its line number so the operator can fix the file.
func ParseProductCSV(r io.Reader) ([]model.ProductInput, error) {
	reader := csv.NewReader(SkipBOM(r))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("gagal membaca header CSV: %w", err)
	}

	colIndex, err := getColIndex(header, []string{"sku", "name"})
	if err != nil {
		return nil, err
	}

	get := func(record []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var products []model.ProductInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("gagal membaca baris %d: %w", line, err)
		}

		p := model.ProductInput{
			SKU:      get(record, "sku"),
			Name:     get(record, "name"),
			Category: get(record, "category"),
			Location: get(record, "location"),
		}
		if p.SKU == "" || p.Name == "" {
			return nil, fmt.Errorf("baris %d: sku dan name wajib diisi", line)
		}

		if p.Stock, err = parseIntField(get(record, "stock"), "stock", line); err != nil {
			return nil, err
		}
		if p.MinStock, err = parseIntField(get(record, "min_stock"), "min_stock", line); err != nil {
			return nil, err
		}
		if p.MaxStock, err = parseIntField(get(record, "max_stock"), "max_stock", line); err != nil {
			return nil, err
		}
		if raw := get(record, "unit_price"); raw != "" {
			if p.UnitPrice, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("baris %d: unit_price tidak valid: %s", line, raw)
			}
		}

		products = append(products, p)
	}
	return products, nil
}

func parseIntField(raw, name string, line int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("baris %d: %s tidak valid: %s", line, name, raw)
	}
	return v, nil
}
