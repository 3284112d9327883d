package state

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want PaymentMethod
		ok   bool
	}{
		{raw: "CASH", want: PaymentCash, ok: true},
		{raw: "cash", want: PaymentCash, ok: true},
		{raw: " wire ", want: PaymentWire, ok: true},
		{raw: "Credit_Card", want: PaymentCreditCard, ok: true},
		{raw: "BITCOIN", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParsePaymentMethod(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParsePaymentMethod(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestApplyUpsertProductReplacesLine(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)

	if err := st.Apply(UpsertProductDelta(ProductLine{ProductID: "P1", Description: "Pan", Quantity: 2}), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := st.Apply(UpsertProductDelta(ProductLine{ProductID: "P1", Description: "Pan", Quantity: 5}), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	line, ok := st.Line("P1")
	if !ok {
		t.Fatal("expected line P1 in cart")
	}
	if line.Quantity != 5 {
		t.Fatalf("expected quantity replaced to 5, got %d", line.Quantity)
	}
	if len(st.Products) != 1 {
		t.Fatalf("expected a single cart line, got %d", len(st.Products))
	}
}

func TestApplyRemoveProduct(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)
	if err := st.Apply(UpsertProductDelta(ProductLine{ProductID: "P1", Description: "Pan", Quantity: 1}), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if err := st.Apply(RemoveProductDelta("P1"), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !st.Empty() {
		t.Fatal("expected empty cart after removal")
	}

	// Removing an absent product is a no-op, not an error.
	if err := st.Apply(RemoveProductDelta("P1"), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
}

func TestApplyReplaceSemantics(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)

	if err := st.Apply(SetPaymentMethodDelta(PaymentCreditCard), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if st.PaymentMethod != PaymentCreditCard {
		t.Fatalf("unexpected payment method: %s", st.PaymentMethod)
	}

	first := PaymentPlan{Bank: "GALICIA", CreditCard: "VISA", Installments: 12, PromotionID: "PROMO001"}
	if err := st.Apply(SetPaymentPlanDelta(first), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// A new plan replaces the old one wholesale, promotion id included.
	second := PaymentPlan{Bank: "MACRO", CreditCard: "MASTERCARD", Installments: 6}
	if err := st.Apply(SetPaymentPlanDelta(second), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if *st.PaymentPlan != second {
		t.Fatalf("expected plan replaced, got %+v", st.PaymentPlan)
	}

	if err := st.Apply(SetCustomerDelta(CustomerInformation{Name: "Ana", Email: "ana@example.com", Phone: "123"}), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if st.Customer == nil || st.Customer.Name != "Ana" {
		t.Fatalf("unexpected customer: %+v", st.Customer)
	}

	total := decimal.NewFromInt(240000)
	if err := st.Apply(SetTotalDelta(total), testNow); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !st.TotalAmount.Equal(total) {
		t.Fatalf("unexpected total: %s", st.TotalAmount)
	}
}

func TestApplyRejectsBadDeltas(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)

	if err := st.Apply(StateDelta{Kind: DeltaUpsertProduct}, testNow); !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData, got %v", err)
	}
	if err := st.Apply(StateDelta{Kind: DeltaSetPaymentMethod, PaymentMethod: "BITCOIN"}, testNow); !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData, got %v", err)
	}
	if err := st.Apply(StateDelta{Kind: "teleport"}, testNow); !errors.Is(err, ErrUnknownDelta) {
		t.Fatalf("expected ErrUnknownDelta, got %v", err)
	}

	var nilState *QuoteState
	if err := nilState.Apply(RemoveProductDelta("P1"), testNow); !errors.Is(err, ErrNilQuoteState) {
		t.Fatalf("expected ErrNilQuoteState, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)
	if err := st.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	st.PaymentMethod = "BITCOIN"
	if err := st.Validate(); err == nil {
		t.Fatal("expected error for invalid payment method")
	}
	st.PaymentMethod = PaymentCreditCard

	st.PaymentPlan = &PaymentPlan{Bank: "GALICIA", CreditCard: "VISA"}
	if err := st.Validate(); err == nil {
		t.Fatal("expected error for zero installments")
	}
	st.PaymentPlan.Installments = 12

	st.Products["P1"] = ProductLine{ProductID: "P1", Quantity: 0}
	if err := st.Validate(); err == nil {
		t.Fatal("expected error for non-positive quantity")
	}
}

func TestTouchNormalizesToUTC(t *testing.T) {
	t.Parallel()

	st := NewQuoteState("s1", testNow)
	loc := time.FixedZone("ART", -3*60*60)
	st.Touch(time.Date(2026, 9, 1, 9, 0, 0, 0, loc))

	if st.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", st.UpdatedAt.Location())
	}
	if !st.UpdatedAt.Equal(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %s", st.UpdatedAt)
	}
}
