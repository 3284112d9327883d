package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Product is one catalog row. Immutable once loaded.
type Product struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// PriceRecord keeps the raw price strings for one product. Values are parsed
// to decimals on demand by the pricing package; empty, "N/A", or garbage
// values deliberately survive loading and degrade to zero at parse time.
type PriceRecord struct {
	ID           string         `json:"id"`
	BasePrice    string         `json:"base_price"`
	CashPrice    string         `json:"cash_price"`
	Installments map[int]string `json:"installments,omitempty"`
}

// Tier returns the raw per-installment price for a tier count ("" if the
// price list has no such tier).
func (r PriceRecord) Tier(installments int) string {
	if r.Installments == nil {
		return ""
	}
	return r.Installments[installments]
}

// Match pairs a product with its price record for search results.
type Match struct {
	Product Product
	Price   PriceRecord
}

// Source loads catalog rows and price records from some backing store.
type Source interface {
	Load(ctx context.Context) ([]Product, map[string]PriceRecord, error)
}

const maxSearchResults = 20

// Store is the read-only in-memory product/price index. Built once at
// bootstrap and shared by every session; safe for concurrent reads.
type Store struct {
	products []Product
	byID     map[string]Product
	prices   map[string]PriceRecord
}

// NewStore loads the source eagerly. Load failures are logged and degrade to
// an empty catalog so the rest of the agent keeps functioning.
func NewStore(ctx context.Context, src Source) *Store {
	products, prices, err := src.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed, starting with empty catalog")
		products, prices = nil, nil
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	if prices == nil {
		prices = map[string]PriceRecord{}
	}

	log.Info().Int("products", len(products)).Int("prices", len(prices)).Msg("catalog loaded")

	return &Store{
		products: products,
		byID:     byID,
		prices:   prices,
	}
}

// Search does a case-insensitive substring match on product descriptions and
// returns at most 20 matches, each joined with its price record.
func (s *Store) Search(query string) []Match {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var matches []Match
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		matches = append(matches, Match{Product: p, Price: s.prices[p.ID]})
		if len(matches) == maxSearchResults {
			break
		}
	}
	return matches
}

// Get looks up a product by id. A missing id is a false flag, not an error.
func (s *Store) Get(id string) (Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Price returns the price record for a product id. An unknown id yields the
// zero record, which every parse degrades to 0.0 downstream.
func (s *Store) Price(id string) PriceRecord {
	return s.prices[id]
}

// Len reports how many products were loaded.
func (s *Store) Len() int {
	return len(s.products)
}

// Tiers lists the installment tiers present on a record, sorted ascending.
func (r PriceRecord) Tiers() []int {
	tiers := make([]int, 0, len(r.Installments))
	for n := range r.Installments {
		tiers = append(tiers, n)
	}
	sort.Ints(tiers)
	return tiers
}
