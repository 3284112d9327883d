package lookup

import (
	"context"
	"fmt"
	"strings"

	catalogx "github.com/salesdesk/quoting-agent/agent/catalog"
	contractx "github.com/salesdesk/quoting-agent/agent/contract"
)

// CatalogAgent answers product queries from the catalog store with text the
// coordinator model can quote back to the consultant verbatim.
type CatalogAgent struct {
	store *catalogx.Store
}

var _ contractx.CatalogAgent = (*CatalogAgent)(nil)

func NewCatalogAgent(store *catalogx.Store) *CatalogAgent {
	return &CatalogAgent{store: store}
}

func (a *CatalogAgent) SearchProducts(ctx context.Context, query string) (string, error) {
	matches := a.store.Search(query)
	if len(matches) == 0 {
		return fmt.Sprintf("No products found matching %q", query), nil
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, formatMatch(m))
	}
	return fmt.Sprintf("Found %d products:\n\n%s", len(matches), strings.Join(blocks, "\n---\n")), nil
}

func (a *CatalogAgent) ProductByID(ctx context.Context, productID string) (string, error) {
	product, ok := a.store.Get(productID)
	if !ok {
		return fmt.Sprintf("Product with ID %s not found", productID), nil
	}

	price := a.store.Price(productID)
	var b strings.Builder
	fmt.Fprintf(&b, "Product ID: %s\n", product.ID)
	fmt.Fprintf(&b, "Description: %s\n", product.Description)
	fmt.Fprintf(&b, "Base Price: $%s\n", valueOrNA(price.BasePrice))
	fmt.Fprintf(&b, "Cash/Wire Price: $%s\n", valueOrNA(price.CashPrice))
	for _, n := range price.Tiers() {
		fmt.Fprintf(&b, "%d Installments: $%s/month\n", n, valueOrNA(price.Tier(n)))
	}
	return b.String(), nil
}

func formatMatch(m catalogx.Match) string {
	cash := valueOrNA(m.Price.CashPrice)
	if m.Price.CashPrice == "0" {
		cash = "Same as base"
	}
	return fmt.Sprintf(
		"ID: %s\nDescription: %s\nBase Price: $%s\nCash Price: $%s\n",
		m.Product.ID, m.Product.Description, valueOrNA(m.Price.BasePrice), cash,
	)
}

func valueOrNA(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}
	return raw
}
