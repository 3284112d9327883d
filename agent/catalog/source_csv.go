package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CSVSource reads the catalog and price list from two UTF-8 CSV files keyed
// by product id. Extra columns are ignored; installment tiers are picked up
// from any column named installments_<n>.
type CSVSource struct {
	CatalogPath string
	PricePath   string
}

var _ Source = (*CSVSource)(nil)

func NewCSVSource(catalogPath, pricePath string) *CSVSource {
	return &CSVSource{CatalogPath: catalogPath, PricePath: pricePath}
}

func (s *CSVSource) Load(ctx context.Context) ([]Product, map[string]PriceRecord, error) {
	products, err := s.loadCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	prices, err := s.loadPrices()
	if err != nil {
		return nil, nil, fmt.Errorf("load prices: %w", err)
	}
	return products, prices, nil
}

func (s *CSVSource) loadCatalog() ([]Product, error) {
	rows, header, err := readCSV(s.CatalogPath)
	if err != nil {
		return nil, err
	}

	idCol, ok := header["id"]
	if !ok {
		return nil, fmt.Errorf("catalog file %s has no id column", s.CatalogPath)
	}
	descCol, ok := header["description"]
	if !ok {
		return nil, fmt.Errorf("catalog file %s has no description column", s.CatalogPath)
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(cell(row, idCol))
		if id == "" {
			continue
		}
		products = append(products, Product{
			ID:          id,
			Description: strings.TrimSpace(cell(row, descCol)),
		})
	}
	return products, nil
}

func (s *CSVSource) loadPrices() (map[string]PriceRecord, error) {
	rows, header, err := readCSV(s.PricePath)
	if err != nil {
		return nil, err
	}

	idCol, ok := header["id"]
	if !ok {
		return nil, fmt.Errorf("price file %s has no id column", s.PricePath)
	}

	tierCols := map[int]int{}
	for name, col := range header {
		if n, ok := installmentTier(name); ok {
			tierCols[n] = col
		}
	}

	baseCol := colOf(header, "base_price")
	cashCol := colOf(header, "cash_price")

	prices := make(map[string]PriceRecord, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(cell(row, idCol))
		if id == "" {
			continue
		}

		rec := PriceRecord{
			ID:           id,
			BasePrice:    strings.TrimSpace(cell(row, baseCol)),
			CashPrice:    strings.TrimSpace(cell(row, cashCol)),
			Installments: make(map[int]string, len(tierCols)),
		}
		for n, col := range tierCols {
			rec.Installments[n] = strings.TrimSpace(cell(row, col))
		}
		prices[id] = rec
	}
	return prices, nil
}

func installmentTier(column string) (int, bool) {
	const prefix = "installments_"
	if !strings.HasPrefix(column, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(column[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// readCSV returns the data rows and a lower-cased header-name -> column map.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, map[string]int{}, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], header, nil
}

func colOf(header map[string]int, name string) int {
	if col, ok := header[name]; ok {
		return col
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
