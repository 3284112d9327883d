package quote

import (
	"sort"

	"github.com/shopspring/decimal"

	pricingx "github.com/salesdesk/quoting-agent/agent/pricing"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

// LineItem is one priced row of a quote, derived from a cart product line at
// generation time.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CalculateBudget folds the pricing engine over every cart line. Lines are
// ordered by product id so repeated generation yields identical documents.
func CalculateBudget(st *statex.QuoteState, engine *pricingx.Engine) []LineItem {
	if st == nil || len(st.Products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(st.Products))
	for id := range st.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]LineItem, 0, len(ids))
	for _, id := range ids {
		line := st.Products[id]
		unit := engine.UnitPrice(id, st.PaymentMethod, st.PaymentPlan)
		items = append(items, LineItem{
			ID:          id,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   unit,
			Subtotal:    unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items
}

// CalculateTotal sums the line subtotals.
func CalculateTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// pricePerInstallment divides the quote total evenly across installments.
//
// TODO(product review): the promotional ("interest-free") and standard
// branches intentionally share this formula even though the price list
// describes them differently; confirm with the pricing owner before
// diverging them.
func pricePerInstallment(total decimal.Decimal, installments int) decimal.Decimal {
	if installments < 1 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(installments)))
}
