package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCSV(t *testing.T) {
	csv := "\ufeffsku,name,category,stock,min_stock,max_stock,unit_price,location\n" +
		"ONT-001,ONT ZTE F670L,perangkat,25,10,100,450000,Gudang A\n" +
		"KBL-01,Kabel Dropcore 1C,kabel,,5,,125000.50,\n"

	products, err := ParseProductCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "ONT-001", products[0].SKU)
	assert.Equal(t, 25, products[0].Stock)
	assert.Equal(t, 10, products[0].MinStock)
	assert.Equal(t, 450000.0, products[0].UnitPrice)
	assert.Equal(t, "Gudang A", products[0].Location)

	// Blank numerics default to zero.
	assert.Equal(t, 0, products[1].Stock)
	assert.Equal(t, 0, products[1].MaxStock)
	assert.Equal(t, 125000.50, products[1].UnitPrice)
}

func TestParseProductCSVMissingRequiredColumn(t *testing.T) {
	csv := "sku,category\nONT-001,perangkat\n"
	_, err := ParseProductCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestParseProductCSVMalformedNumber(t *testing.T) {
	csv := "sku,name,stock\nONT-001,ONT,banyak\n"
	_, err := ParseProductCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baris 2")
}

func TestParseProductCSVEmptyRequiredField(t *testing.T) {
	csv := "sku,name\n,ONT\n"
	_, err := ParseProductCSV(strings.NewReader(csv))
	require.Error(t, err)
}
