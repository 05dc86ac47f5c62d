package parsers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SkipBOM strips a UTF-8 BOM if present. Spreadsheet exports usually carry one.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	for i, b := range bom {
		if peeked[i] != b {
			return br
		}
	}
	br.Read(make([]byte, 3))
	return br
}

// getColIndex maps header names to column indexes and checks the required ones.
func getColIndex(header []string, required []string) (map[string]int, error) {
	colIndex := make(map[string]int)
	for i, colName := range header {
		colIndex[strings.TrimSpace(colName)] = i
	}
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			return nil, fmt.Errorf("kolom wajib tidak ditemukan: %s", req)
		}
	}
	return colIndex, nil
}
