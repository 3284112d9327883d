package pricing

import (
	"github.com/shopspring/decimal"

	catalogx "github.com/salesdesk/quoting-agent/agent/catalog"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

// Engine computes the unit price that applies to a cart line under a given
// payment method and plan. It owns the only non-trivial business rules in
// the system; every branch below mirrors the published price-list policy.
type Engine struct {
	catalog *catalogx.Store
}

func NewEngine(catalog *catalogx.Store) *Engine {
	return &Engine{catalog: catalog}
}

// UnitPrice resolves the per-unit price for a product.
//
// Policy, evaluated in order:
//  1. CASH or WIRE pay the cash price when one is present, else base price.
//  2. CREDIT_CARD under a promotion pays base price; promotional financing
//     is interest-free and the per-installment amount is derived later from
//     the total.
//  3. CREDIT_CARD without a promotion pays the installment tier rate times
//     the installment count: the tier rate bakes interest in, so the
//     financed total exceeds base price. A missing tier falls back to base.
//  4. Everything else (no method yet, or CREDIT_CARD without a plan) falls
//     back to base price.
//
// An unknown product id yields an empty price record, so the result is zero
// rather than an error; callers surface a zero unit price upstream instead
// of billing it silently.
func (e *Engine) UnitPrice(productID string, method statex.PaymentMethod, plan *statex.PaymentPlan) decimal.Decimal {
	record := e.catalog.Price(productID)
	base := ParsePrice(record.BasePrice)

	switch method {
	case statex.PaymentCash, statex.PaymentWire:
		if cash := ParsePrice(record.CashPrice); positive(cash) {
			return cash
		}
		return base

	case statex.PaymentCreditCard:
		if plan == nil {
			return base
		}
		if plan.PromotionID != "" {
			return base
		}
		tier := ParsePrice(record.Tier(plan.Installments))
		if positive(tier) {
			return tier.Mul(decimal.NewFromInt(int64(plan.Installments)))
		}
		return base

	default:
		return base
	}
}
