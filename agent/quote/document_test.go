package quote

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalogx "github.com/salesdesk/quoting-agent/agent/catalog"
	pricingx "github.com/salesdesk/quoting-agent/agent/pricing"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

var testNow = time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)

type stubSource struct {
	products []catalogx.Product
	prices   map[string]catalogx.PriceRecord
}

func (s stubSource) Load(ctx context.Context) ([]catalogx.Product, map[string]catalogx.PriceRecord, error) {
	return s.products, s.prices, nil
}

func newTestEngine(t *testing.T) *pricingx.Engine {
	t.Helper()

	src := stubSource{
		products: []catalogx.Product{
			{ID: "P1", Description: "Frying pan"},
			{ID: "P2", Description: "Pot"},
		},
		prices: map[string]catalogx.PriceRecord{
			"P1": {
				ID:        "P1",
				BasePrice: "100000",
				CashPrice: "90000",
				Installments: map[int]string{
					12: "10000",
				},
			},
			"P2": {
				ID:        "P2",
				BasePrice: "50000",
				CashPrice: "45000",
			},
		},
	}
	return pricingx.NewEngine(catalogx.NewStore(context.Background(), src))
}

func newTestGenerator(t *testing.T, writer *Writer) *Generator {
	t.Helper()

	g := NewGenerator(newTestEngine(t), writer)
	g.now = func() time.Time { return testNow }
	g.newID = func() string { return "quote-test-id" }
	return g
}

func cartState(method statex.PaymentMethod) *statex.QuoteState {
	st := statex.NewQuoteState("s1", testNow)
	st.Products["P1"] = statex.ProductLine{ProductID: "P1", Description: "Frying pan", Quantity: 2}
	st.Products["P2"] = statex.ProductLine{ProductID: "P2", Description: "Pot", Quantity: 1}
	st.PaymentMethod = method
	return st
}

func TestCalculateBudgetDeterministicOrder(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	st := cartState(statex.PaymentCash)

	items := CalculateBudget(st, engine)
	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	if items[0].ID != "P1" || items[1].ID != "P2" {
		t.Fatalf("expected lines sorted by id, got %s, %s", items[0].ID, items[1].ID)
	}

	// P1: 90000 * 2, P2: 45000 * 1.
	if !items[0].Subtotal.Equal(decimal.NewFromInt(180000)) {
		t.Fatalf("unexpected P1 subtotal: %s", items[0].Subtotal)
	}
	if !CalculateTotal(items).Equal(decimal.NewFromInt(225000)) {
		t.Fatalf("unexpected total: %s", CalculateTotal(items))
	}
}

func TestBuildValidatesState(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)

	empty := statex.NewQuoteState("s1", testNow)
	if _, err := g.Build(empty); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	st := cartState("")
	if _, err := g.Build(st); !errors.Is(err, ErrMissingPaymentMethod) {
		t.Fatalf("expected ErrMissingPaymentMethod, got %v", err)
	}
}

func TestBuildCreditCardPlanSection(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)

	st := cartState(statex.PaymentCreditCard)
	st.PaymentPlan = &statex.PaymentPlan{
		Bank:         "GALICIA",
		CreditCard:   "VISA",
		Installments: 12,
		PromotionID:  "PROMO001",
	}

	doc, err := g.Build(st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// With a promotion both lines price at base: 100000*2 + 50000.
	if !doc.TotalAmount.Equal(decimal.NewFromInt(250000)) {
		t.Fatalf("unexpected total: %s", doc.TotalAmount)
	}
	if doc.PaymentPlan == nil {
		t.Fatal("expected payment plan section")
	}
	wantPer := decimal.NewFromInt(250000).Div(decimal.NewFromInt(12))
	if !doc.PaymentPlan.PricePerInstallment.Equal(wantPer) {
		t.Fatalf("unexpected price per installment: %s", doc.PaymentPlan.PricePerInstallment)
	}
	if doc.PaymentPlan.PromotionID != "PROMO001" {
		t.Fatalf("unexpected promotion id: %s", doc.PaymentPlan.PromotionID)
	}
}

func TestBuildOmitsPlanForCash(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)

	st := cartState(statex.PaymentCash)
	// A stale plan from an earlier credit-card attempt must not leak into a
	// cash quote.
	st.PaymentPlan = &statex.PaymentPlan{Bank: "GALICIA", CreditCard: "VISA", Installments: 12}

	doc, err := g.Build(st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.PaymentPlan != nil {
		t.Fatalf("expected no payment plan section, got %+v", doc.PaymentPlan)
	}
	if doc.Customer != nil {
		t.Fatalf("expected no customer section, got %+v", doc.Customer)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)
	st := cartState(statex.PaymentCash)

	first, err := g.Build(st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := g.Build(st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !first.TotalAmount.Equal(second.TotalAmount) {
		t.Fatalf("totals differ: %s vs %s", first.TotalAmount, second.TotalAmount)
	}
	if len(first.Products) != len(second.Products) {
		t.Fatalf("line counts differ: %d vs %d", len(first.Products), len(second.Products))
	}
	if line, ok := st.Line("P1"); !ok || line.Quantity != 2 {
		t.Fatalf("state mutated by Build: %+v", line)
	}
}

func TestGenerateWritesDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := newTestGenerator(t, NewWriter(dir))

	st := cartState(statex.PaymentCash)
	st.Customer = &statex.CustomerInformation{Name: "Ana", Email: "ana@example.com", Phone: "123"}

	doc, path, err := g.Generate(st)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if doc.Customer == nil || doc.Customer.Name != "Ana" {
		t.Fatalf("unexpected customer: %+v", doc.Customer)
	}

	wantName := "quote_20260901_150405.json"
	if filepath.Base(path) != wantName {
		t.Fatalf("unexpected file name %q, want %q", filepath.Base(path), wantName)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read quote file: %v", err)
	}
	var onDisk Document
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("unmarshal quote file: %v", err)
	}
	if onDisk.ID != "quote-test-id" {
		t.Fatalf("unexpected id: %s", onDisk.ID)
	}
	if !onDisk.TotalAmount.Equal(doc.TotalAmount) {
		t.Fatalf("totals differ on disk: %s vs %s", onDisk.TotalAmount, doc.TotalAmount)
	}
}

func TestPricePerInstallment(t *testing.T) {
	t.Parallel()

	total := decimal.NewFromInt(120000)
	if got := pricePerInstallment(total, 12); !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("unexpected per-installment price: %s", got)
	}
	if got := pricePerInstallment(total, 0); !got.IsZero() {
		t.Fatalf("expected zero for invalid installments, got %s", got)
	}
}
