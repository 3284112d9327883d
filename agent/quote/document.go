package quote

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingx "github.com/salesdesk/quoting-agent/agent/pricing"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

var (
	ErrEmptyCart            = errors.New("cart has no products")
	ErrMissingPaymentMethod = errors.New("payment method is not set")
)

// Customer mirrors the customer section of a generated quote.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentPlanSection is the financing block of a generated quote.
type PaymentPlanSection struct {
	Bank                string          `json:"bank"`
	CreditCard          string          `json:"credit_card"`
	Installments        int             `json:"installments"`
	PromotionID         string          `json:"promotion_id,omitempty"`
	PricePerInstallment decimal.Decimal `json:"price_per_installment"`
}

// Document is the final priced quote. In production this would feed a PDF
// renderer; today it is persisted as JSON.
type Document struct {
	ID            string               `json:"id"`
	Date          time.Time            `json:"date"`
	Customer      *Customer            `json:"customer,omitempty"`
	Products      []LineItem           `json:"products"`
	PaymentMethod statex.PaymentMethod `json:"payment_method"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaymentPlan   *PaymentPlanSection  `json:"payment_plan,omitempty"`
}

// Generator materializes quote documents from conversation state.
type Generator struct {
	engine *pricingx.Engine
	writer *Writer
	now    func() time.Time
	newID  func() string
}

func NewGenerator(engine *pricingx.Engine, writer *Writer) *Generator {
	return &Generator{
		engine: engine,
		writer: writer,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Generate validates the cart, prices every line, and persists the document.
// It never mutates the state it reads; re-running on an unchanged cart
// produces an equivalent document modulo id and timestamp.
func (g *Generator) Generate(st *statex.QuoteState) (*Document, string, error) {
	doc, err := g.Build(st)
	if err != nil {
		return nil, "", err
	}

	path := ""
	if g.writer != nil {
		path, err = g.writer.Write(doc)
		if err != nil {
			return nil, "", fmt.Errorf("persist quote: %w", err)
		}
	}
	return doc, path, nil
}

// Build assembles the document without persisting it.
func (g *Generator) Build(st *statex.QuoteState) (*Document, error) {
	if st.Empty() {
		return nil, ErrEmptyCart
	}
	if st.PaymentMethod == "" {
		return nil, ErrMissingPaymentMethod
	}

	items := CalculateBudget(st, g.engine)
	total := CalculateTotal(items)

	doc := &Document{
		ID:            g.newID(),
		Date:          g.now().UTC(),
		Products:      items,
		PaymentMethod: st.PaymentMethod,
		TotalAmount:   total,
	}

	// Customer data is optional: downstream human review can fill it in.
	if st.Customer != nil {
		doc.Customer = &Customer{
			Name:  st.Customer.Name,
			Email: st.Customer.Email,
			Phone: st.Customer.Phone,
		}
	}

	if st.PaymentMethod == statex.PaymentCreditCard && st.PaymentPlan != nil {
		plan := st.PaymentPlan
		doc.PaymentPlan = &PaymentPlanSection{
			Bank:                plan.Bank,
			CreditCard:          plan.CreditCard,
			Installments:        plan.Installments,
			PromotionID:         plan.PromotionID,
			PricePerInstallment: pricePerInstallment(total, plan.Installments),
		}
	}

	return doc, nil
}
