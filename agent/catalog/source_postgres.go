package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresSource loads the catalog and price list from Postgres. It serves
// deployments where the product master lives in a database instead of the
// exported CSV files; the row shape matches the CSV columns.
type PostgresSource struct {
	db *bun.DB
}

var _ Source = (*PostgresSource)(nil)

type productRow struct {
	bun.BaseModel `bun:"table:products"`

	ID          string `bun:"id,pk"`
	Description string `bun:"description"`
}

type priceRow struct {
	bun.BaseModel `bun:"table:price_list"`

	ID             string `bun:"id,pk"`
	BasePrice      string `bun:"base_price"`
	CashPrice      string `bun:"cash_price"`
	Installments3  string `bun:"installments_3"`
	Installments6  string `bun:"installments_6"`
	Installments9  string `bun:"installments_9"`
	Installments12 string `bun:"installments_12"`
}

func NewPostgresSource(dsn string) *PostgresSource {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &PostgresSource{db: bun.NewDB(sqldb, pgdialect.New())}
}

func (s *PostgresSource) Load(ctx context.Context) ([]Product, map[string]PriceRecord, error) {
	var productRows []productRow
	if err := s.db.NewSelect().Model(&productRows).Order("id ASC").Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("select products: %w", err)
	}

	var priceRows []priceRow
	if err := s.db.NewSelect().Model(&priceRows).Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("select price list: %w", err)
	}

	products := make([]Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, Product{ID: row.ID, Description: row.Description})
	}

	prices := make(map[string]PriceRecord, len(priceRows))
	for _, row := range priceRows {
		prices[row.ID] = PriceRecord{
			ID:        row.ID,
			BasePrice: row.BasePrice,
			CashPrice: row.CashPrice,
			Installments: map[int]string{
				3:  row.Installments3,
				6:  row.Installments6,
				9:  row.Installments9,
				12: row.Installments12,
			},
		}
	}
	return products, prices, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}
