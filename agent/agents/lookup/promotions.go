package lookup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	promotionx "github.com/salesdesk/quoting-agent/agent/promotion"
)

// PromotionsAgent answers promotion queries from the promotion store.
type PromotionsAgent struct {
	store *promotionx.Store
	now   func() time.Time
}

var _ contractx.PromotionsAgent = (*PromotionsAgent)(nil)

func NewPromotionsAgent(store *promotionx.Store) *PromotionsAgent {
	return &PromotionsAgent{store: store, now: time.Now}
}

func (a *PromotionsAgent) SearchPromotions(ctx context.Context, bank, creditCard string, installments int) (string, error) {
	filter := promotionx.Filter{
		Bank:         strings.TrimSpace(bank),
		CreditCard:   strings.TrimSpace(creditCard),
		Installments: installments,
	}

	matches := a.store.Search(filter, a.now())
	if len(matches) == 0 {
		return fmt.Sprintf("No promotions found for %s", describeFilter(filter)), nil
	}

	blocks := make([]string, 0, len(matches))
	for _, p := range matches {
		blocks = append(blocks, formatPromotion(p))
	}
	return fmt.Sprintf("Found %d promotions:\n\n%s", len(matches), strings.Join(blocks, "\n---\n\n")), nil
}

func (a *PromotionsAgent) PromotionByID(ctx context.Context, promotionID string) (string, error) {
	promo, ok := a.store.Get(promotionID)
	if !ok {
		return fmt.Sprintf("Promotion with ID %s not found", promotionID), nil
	}
	if !promo.Availability.Covers(a.now()) {
		return fmt.Sprintf("Promotion %s is not currently available", promotionID), nil
	}
	return formatPromotion(promo), nil
}

func describeFilter(f promotionx.Filter) string {
	var parts []string
	if f.Bank != "" {
		parts = append(parts, "bank: "+f.Bank)
	}
	if f.CreditCard != "" {
		parts = append(parts, "credit card: "+f.CreditCard)
	}
	if f.Installments > 0 {
		parts = append(parts, "installments: "+strconv.Itoa(f.Installments))
	}
	if len(parts) == 0 {
		return "the given criteria"
	}
	return strings.Join(parts, ", ")
}

func formatPromotion(p promotionx.Promotion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Promotion: %s (ID: %s)\n", p.Name, p.ID)
	fmt.Fprintf(&b, "Banks: %s\n", strings.Join(p.Banks, ", "))
	fmt.Fprintf(&b, "Credit Cards: %s\n", strings.Join(p.CreditCards, ", "))
	fmt.Fprintf(&b, "Installments: %s\n", joinInts(p.Installments))

	if len(p.Wallets) > 0 {
		names := make([]string, 0, len(p.Wallets))
		for _, w := range p.Wallets {
			suffix := " (required)"
			if w.IsOptional {
				suffix = " (optional)"
			}
			names = append(names, w.Name+suffix)
		}
		fmt.Fprintf(&b, "Digital Wallets: %s\n", strings.Join(names, ", "))
	}
	if p.Reimbursement != "" {
		fmt.Fprintf(&b, "Reimbursement: %s\n", p.Reimbursement)
	}
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}
