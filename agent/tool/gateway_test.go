package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	lookupx "github.com/salesdesk/quoting-agent/agent/agents/lookup"
	catalogx "github.com/salesdesk/quoting-agent/agent/catalog"
	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	pricingx "github.com/salesdesk/quoting-agent/agent/pricing"
	promotionx "github.com/salesdesk/quoting-agent/agent/promotion"
	quotex "github.com/salesdesk/quoting-agent/agent/quote"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type stubCatalogSource struct {
	products []catalogx.Product
	prices   map[string]catalogx.PriceRecord
}

func (s stubCatalogSource) Load(ctx context.Context) ([]catalogx.Product, map[string]catalogx.PriceRecord, error) {
	return s.products, s.prices, nil
}

type stubPromotionSource struct {
	promotions []promotionx.Promotion
}

func (s stubPromotionSource) Load(ctx context.Context) ([]promotionx.Promotion, error) {
	return s.promotions, nil
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	ctx := context.Background()
	catalogStore := catalogx.NewStore(ctx, stubCatalogSource{
		products: []catalogx.Product{
			{ID: "P1", Description: "Frying pan 24cm"},
		},
		prices: map[string]catalogx.PriceRecord{
			"P1": {ID: "P1", BasePrice: "100000", CashPrice: "90000"},
		},
	})
	promoStore := promotionx.NewStore(ctx, stubPromotionSource{
		promotions: []promotionx.Promotion{
			{
				ID:           "PROMO001",
				Name:         "Galicia Visa",
				Banks:        []string{"GALICIA"},
				CreditCards:  []string{"VISA"},
				Installments: []int{12},
				Availability: promotionx.Availability{Type: "always"},
			},
		},
	})

	generator := quotex.NewGenerator(pricingx.NewEngine(catalogStore), nil)
	return NewGateway(
		lookupx.NewCatalogAgent(catalogStore),
		lookupx.NewPromotionsAgent(promoStore),
		generator,
	)
}

func execOne(t *testing.T, g *Gateway, st *statex.QuoteState, req contractx.ToolRequest) contractx.ToolResult {
	t.Helper()

	results, err := g.Execute(context.Background(), st, []contractx.ToolRequest{req})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	return results[0]
}

func TestGatewayAddProduct(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolCartAdd,
		Args: map[string]any{"product_id": "P1", "description": "Frying pan 24cm", "quantity": 2},
	})
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Delta == nil || res.Delta.Kind != statex.DeltaUpsertProduct {
		t.Fatalf("expected upsert delta, got %+v", res.Delta)
	}
	if res.Delta.Product.Quantity != 2 {
		t.Fatalf("unexpected quantity: %d", res.Delta.Product.Quantity)
	}
}

func TestGatewayAddProductRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	for _, qty := range []any{0, -3} {
		res := execOne(t, g, st, contractx.ToolRequest{
			Tool: ToolCartAdd,
			Args: map[string]any{"product_id": "P1", "description": "Frying pan", "quantity": qty},
		})
		if res.Error == "" {
			t.Fatalf("expected error for quantity %v", qty)
		}
		if res.Delta != nil {
			t.Fatalf("expected no delta for quantity %v", qty)
		}
	}
}

func TestGatewayAddProductReplaceMessage(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)
	st.Products["P1"] = statex.ProductLine{ProductID: "P1", Description: "Frying pan", Quantity: 2}

	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolCartAdd,
		Args: map[string]any{"product_id": "P1", "description": "Frying pan", "quantity": 5},
	})
	if !strings.Contains(res.Message, "Replaced") {
		t.Fatalf("expected replace message, got %q", res.Message)
	}
}

func TestGatewayRemoveProductNotFound(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolCartRemove,
		Args: map[string]any{"product_id": "P9"},
	})
	if res.Error != "" {
		t.Fatalf("missing product must not be an error, got %q", res.Error)
	}
	if res.Delta != nil {
		t.Fatalf("expected no delta, got %+v", res.Delta)
	}
	if !strings.Contains(res.Message, "not in the cart") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestGatewaySetPaymentMethod(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolSetPaymentMethod,
		Args: map[string]any{"payment_method": "cash"},
	})
	if res.Delta == nil || res.Delta.PaymentMethod != statex.PaymentCash {
		t.Fatalf("expected CASH delta, got %+v", res.Delta)
	}

	res = execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolSetPaymentMethod,
		Args: map[string]any{"payment_method": "BITCOIN"},
	})
	if !strings.Contains(res.Error, "Invalid payment method") {
		t.Fatalf("expected invalid method error, got %q", res.Error)
	}
}

func TestGatewaySetPaymentPlan(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	// LLM tool args arrive as float64 after JSON decoding.
	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolSetPaymentPlan,
		Args: map[string]any{"bank": "GALICIA", "credit_card": "VISA", "installments": float64(12), "promotion_id": "PROMO001"},
	})
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Delta == nil || res.Delta.PaymentPlan == nil {
		t.Fatalf("expected plan delta, got %+v", res.Delta)
	}
	if res.Delta.PaymentPlan.Installments != 12 || res.Delta.PaymentPlan.PromotionID != "PROMO001" {
		t.Fatalf("unexpected plan: %+v", res.Delta.PaymentPlan)
	}

	res = execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolSetPaymentPlan,
		Args: map[string]any{"bank": "GALICIA", "credit_card": "VISA", "installments": 0},
	})
	if !strings.Contains(res.Error, "installments") {
		t.Fatalf("expected installments error, got %q", res.Error)
	}
}

func TestGatewayGenerateQuote(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)

	st := statex.NewQuoteState("s1", testNow)
	res := execOne(t, g, st, contractx.ToolRequest{Tool: ToolGenerateQuote})
	if !strings.Contains(res.Error, "no products in cart") {
		t.Fatalf("expected empty cart error, got %q", res.Error)
	}

	st.Products["P1"] = statex.ProductLine{ProductID: "P1", Description: "Frying pan", Quantity: 2}
	res = execOne(t, g, st, contractx.ToolRequest{Tool: ToolGenerateQuote})
	if !strings.Contains(res.Error, "payment method not set") {
		t.Fatalf("expected payment method error, got %q", res.Error)
	}

	st.PaymentMethod = statex.PaymentCash
	res = execOne(t, g, st, contractx.ToolRequest{Tool: ToolGenerateQuote})
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Delta == nil || res.Delta.Kind != statex.DeltaSetTotal {
		t.Fatalf("expected total delta, got %+v", res.Delta)
	}
	// Cash price 90000 * 2.
	if !strings.Contains(res.Message, "180000.00") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestGatewayLookupTools(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	res := execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolCatalogSearch,
		Args: map[string]any{"query": "frying"},
	})
	if res.Error != "" || !strings.Contains(res.Message, "P1") {
		t.Fatalf("unexpected search result: %+v", res)
	}

	res = execOne(t, g, st, contractx.ToolRequest{
		Tool: ToolPromotionsSearch,
		Args: map[string]any{"bank": "GALICIA"},
	})
	if res.Error != "" || !strings.Contains(res.Message, "PROMO001") {
		t.Fatalf("unexpected promotions result: %+v", res)
	}
}

func TestGatewayUnknownTool(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	st := statex.NewQuoteState("s1", testNow)

	res := execOne(t, g, st, contractx.ToolRequest{Tool: "time.travel"})
	if !strings.Contains(res.Error, "not available") {
		t.Fatalf("expected unavailable tool error, got %q", res.Error)
	}
}

func TestToIntConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  any
		want int
		ok   bool
	}{
		{raw: 5, want: 5, ok: true},
		{raw: int64(7), want: 7, ok: true},
		{raw: float64(12), want: 12, ok: true},
		{raw: float64(12.5), ok: false},
		{raw: "9", want: 9, ok: true},
		{raw: "nine", ok: false},
		{raw: nil, ok: false},
	}

	for _, tt := range tests {
		got, ok := toInt(tt.raw)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("toInt(%v) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
