package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the consultant's choice of how the customer pays.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentWire       PaymentMethod = "WIRE"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
)

// ParsePaymentMethod validates a raw payment method value.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentWire:
		return PaymentWire, true
	case PaymentCreditCard:
		return PaymentCreditCard, true
	default:
		return "", false
	}
}

// ProductLine is one cart entry. No price is stored on the line: pricing
// happens at quote time so a later payment-method change re-prices the
// whole cart consistently.
type ProductLine struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// PaymentPlan describes credit-card financing. Replaced wholesale; never
// merged field by field.
type PaymentPlan struct {
	Bank         string `json:"bank"`
	CreditCard   string `json:"credit_card"`
	Installments int    `json:"installments"`
	PromotionID  string `json:"promotion_id,omitempty"`
}

// CustomerInformation is replaced wholesale. The core performs no format
// validation; that judgment stays with the surrounding agent.
type CustomerInformation struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// QuoteState is the per-conversation cart/payment/customer aggregate. It is
// mutated only through Apply; every tool operation produces a StateDelta
// that the conversation loop folds in before persisting.
type QuoteState struct {
	SessionID string `json:"session_id"`

	Products      map[string]ProductLine `json:"products,omitempty"`
	PaymentMethod PaymentMethod          `json:"payment_method,omitempty"`
	PaymentPlan   *PaymentPlan           `json:"payment_plan,omitempty"`
	Customer      *CustomerInformation   `json:"customer,omitempty"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`

	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNilQuoteState  = errors.New("quote state is nil")
	ErrUnknownDelta   = errors.New("unknown state delta kind")
	ErrIncompleteData = errors.New("state delta is missing its payload")
)

func NewQuoteState(sessionID string, now time.Time) *QuoteState {
	return &QuoteState{
		SessionID:   sessionID,
		Products:    make(map[string]ProductLine, 4),
		TotalAmount: decimal.Zero,
		UpdatedAt:   now.UTC(),
	}
}

func (s *QuoteState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureProductsMap makes sure s.Products is initialized after a load.
func (s *QuoteState) EnsureProductsMap() {
	if s.Products == nil {
		s.Products = make(map[string]ProductLine, 4)
	}
}

// Line returns the cart line for a product id.
func (s *QuoteState) Line(productID string) (ProductLine, bool) {
	if s == nil || s.Products == nil {
		return ProductLine{}, false
	}
	line, ok := s.Products[productID]
	return line, ok
}

func (s *QuoteState) Empty() bool {
	return s == nil || len(s.Products) == 0
}

func (s *QuoteState) Validate() error {
	if s == nil {
		return ErrNilQuoteState
	}
	if s.PaymentMethod != "" {
		if _, ok := ParsePaymentMethod(string(s.PaymentMethod)); !ok {
			return fmt.Errorf("invalid payment method %q", s.PaymentMethod)
		}
	}
	if s.PaymentPlan != nil && s.PaymentPlan.Installments < 1 {
		return fmt.Errorf("payment plan installments must be >= 1, got %d", s.PaymentPlan.Installments)
	}
	for id, line := range s.Products {
		if line.Quantity <= 0 {
			return fmt.Errorf("product %s has non-positive quantity %d", id, line.Quantity)
		}
	}
	return nil
}

/* ------------------------------ StateDelta ------------------------------ */

// DeltaKind tags the one mutating operation a StateDelta carries.
type DeltaKind string

const (
	DeltaUpsertProduct    DeltaKind = "upsert_product"
	DeltaRemoveProduct    DeltaKind = "remove_product"
	DeltaSetPaymentMethod DeltaKind = "set_payment_method"
	DeltaSetPaymentPlan   DeltaKind = "set_payment_plan"
	DeltaSetCustomer      DeltaKind = "set_customer"
	DeltaSetTotal         DeltaKind = "set_total"
)

// StateDelta is a tagged union: exactly the payload field matching Kind is
// set. Merge semantics per field are defined by Apply (replace for
// method/plan/customer/total, insert-or-overwrite for product lines).
type StateDelta struct {
	Kind DeltaKind `json:"kind"`

	Product       *ProductLine         `json:"product,omitempty"`
	ProductID     string               `json:"product_id,omitempty"`
	PaymentMethod PaymentMethod        `json:"payment_method,omitempty"`
	PaymentPlan   *PaymentPlan         `json:"payment_plan,omitempty"`
	Customer      *CustomerInformation `json:"customer,omitempty"`
	Total         *decimal.Decimal     `json:"total,omitempty"`
}

func UpsertProductDelta(line ProductLine) StateDelta {
	return StateDelta{Kind: DeltaUpsertProduct, Product: &line}
}

func RemoveProductDelta(productID string) StateDelta {
	return StateDelta{Kind: DeltaRemoveProduct, ProductID: productID}
}

func SetPaymentMethodDelta(method PaymentMethod) StateDelta {
	return StateDelta{Kind: DeltaSetPaymentMethod, PaymentMethod: method}
}

func SetPaymentPlanDelta(plan PaymentPlan) StateDelta {
	return StateDelta{Kind: DeltaSetPaymentPlan, PaymentPlan: &plan}
}

func SetCustomerDelta(info CustomerInformation) StateDelta {
	return StateDelta{Kind: DeltaSetCustomer, Customer: &info}
}

func SetTotalDelta(total decimal.Decimal) StateDelta {
	return StateDelta{Kind: DeltaSetTotal, Total: &total}
}

// Apply folds one delta into the state. It is the only mutation path.
func (s *QuoteState) Apply(d StateDelta, now time.Time) error {
	if s == nil {
		return ErrNilQuoteState
	}
	s.EnsureProductsMap()

	switch d.Kind {
	case DeltaUpsertProduct:
		if d.Product == nil {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		// Overwrite, not accumulate: a repeated add replaces the line.
		s.Products[d.Product.ProductID] = *d.Product
	case DeltaRemoveProduct:
		if strings.TrimSpace(d.ProductID) == "" {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		delete(s.Products, d.ProductID)
	case DeltaSetPaymentMethod:
		if _, ok := ParsePaymentMethod(string(d.PaymentMethod)); !ok {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		s.PaymentMethod = d.PaymentMethod
	case DeltaSetPaymentPlan:
		if d.PaymentPlan == nil {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		plan := *d.PaymentPlan
		s.PaymentPlan = &plan
	case DeltaSetCustomer:
		if d.Customer == nil {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		info := *d.Customer
		s.Customer = &info
	case DeltaSetTotal:
		if d.Total == nil {
			return fmt.Errorf("%w: kind=%s", ErrIncompleteData, d.Kind)
		}
		s.TotalAmount = *d.Total
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDelta, d.Kind)
	}

	s.Touch(now)
	return nil
}
