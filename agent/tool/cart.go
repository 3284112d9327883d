package tool

import (
	"errors"
	"fmt"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	quotex "github.com/salesdesk/quoting-agent/agent/quote"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

func addProduct(st *statex.QuoteState, req contractx.ToolRequest) contractx.ToolResult {
	productID, err := stringArg(req.Args, "product_id")
	if err != nil {
		return errResult(req.Tool, err)
	}
	description, err := stringArg(req.Args, "description")
	if err != nil {
		return errResult(req.Tool, err)
	}
	quantity, err := intArg(req.Args, "quantity")
	if err != nil {
		return errResult(req.Tool, err)
	}
	if quantity <= 0 {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("quantity must be a positive integer, got %d", quantity),
		}
	}

	line := statex.ProductLine{
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
	}
	delta := statex.UpsertProductDelta(line)

	msg := fmt.Sprintf("Added %dx %s to cart.", quantity, description)
	if prev, ok := st.Line(productID); ok {
		msg = fmt.Sprintf("Replaced cart line for %s: quantity %d -> %d.", description, prev.Quantity, quantity)
	}

	return contractx.ToolResult{Tool: req.Tool, Message: msg, Delta: &delta}
}

func removeProduct(st *statex.QuoteState, req contractx.ToolRequest) contractx.ToolResult {
	productID, err := stringArg(req.Args, "product_id")
	if err != nil {
		return errResult(req.Tool, err)
	}

	line, found := st.Line(productID)
	if !found {
		// Not an error: the cart simply has no such line.
		return contractx.ToolResult{
			Tool:    req.Tool,
			Message: fmt.Sprintf("Product %s is not in the cart.", productID),
		}
	}

	delta := statex.RemoveProductDelta(productID)
	return contractx.ToolResult{
		Tool:    req.Tool,
		Message: fmt.Sprintf("Removed %s from cart.", line.Description),
		Delta:   &delta,
	}
}

func setPaymentMethod(req contractx.ToolRequest) contractx.ToolResult {
	raw, err := stringArg(req.Args, "payment_method")
	if err != nil {
		return errResult(req.Tool, err)
	}

	method, ok := statex.ParsePaymentMethod(raw)
	if !ok {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("Invalid payment method: %s. Must be CASH, WIRE, or CREDIT_CARD", raw),
		}
	}

	delta := statex.SetPaymentMethodDelta(method)
	return contractx.ToolResult{
		Tool:    req.Tool,
		Message: fmt.Sprintf("Payment method set to %s", method),
		Delta:   &delta,
	}
}

func setPaymentPlan(req contractx.ToolRequest) contractx.ToolResult {
	bank, err := stringArg(req.Args, "bank")
	if err != nil {
		return errResult(req.Tool, err)
	}
	card, err := stringArg(req.Args, "credit_card")
	if err != nil {
		return errResult(req.Tool, err)
	}
	installments, err := intArg(req.Args, "installments")
	if err != nil {
		return errResult(req.Tool, err)
	}
	if installments < 1 {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("installments must be >= 1, got %d", installments),
		}
	}

	plan := statex.PaymentPlan{
		Bank:         bank,
		CreditCard:   card,
		Installments: installments,
		PromotionID:  optionalStringArg(req.Args, "promotion_id"),
	}
	delta := statex.SetPaymentPlanDelta(plan)

	return contractx.ToolResult{
		Tool:    req.Tool,
		Message: fmt.Sprintf("Payment plan set: %d installments with %s %s", installments, bank, card),
		Delta:   &delta,
	}
}

func setCustomer(req contractx.ToolRequest) contractx.ToolResult {
	name, err := stringArg(req.Args, "name")
	if err != nil {
		return errResult(req.Tool, err)
	}
	email, err := stringArg(req.Args, "email")
	if err != nil {
		return errResult(req.Tool, err)
	}
	phone, err := stringArg(req.Args, "phone")
	if err != nil {
		return errResult(req.Tool, err)
	}

	delta := statex.SetCustomerDelta(statex.CustomerInformation{
		Name:  name,
		Email: email,
		Phone: phone,
	})
	return contractx.ToolResult{
		Tool:    req.Tool,
		Message: fmt.Sprintf("Customer information set for %s", name),
		Delta:   &delta,
	}
}

func (g *Gateway) generateQuote(st *statex.QuoteState, req contractx.ToolRequest) contractx.ToolResult {
	doc, path, err := g.quotes.Generate(st)
	if err != nil {
		switch {
		case errors.Is(err, quotex.ErrEmptyCart):
			return contractx.ToolResult{Tool: req.Tool, Error: "Cannot generate quote: no products in cart"}
		case errors.Is(err, quotex.ErrMissingPaymentMethod):
			return contractx.ToolResult{Tool: req.Tool, Error: "Cannot generate quote: payment method not set"}
		default:
			return contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("Cannot generate quote: %v", err)}
		}
	}

	delta := statex.SetTotalDelta(doc.TotalAmount)
	msg := fmt.Sprintf("Quote generated successfully. Total: $%s.", doc.TotalAmount.StringFixed(2))
	if doc.PaymentPlan != nil {
		msg = fmt.Sprintf("%s %d installments of $%s.", msg, doc.PaymentPlan.Installments, doc.PaymentPlan.PricePerInstallment.StringFixed(2))
	}
	if path != "" {
		msg = fmt.Sprintf("%s File saved to: %s", msg, path)
	}

	return contractx.ToolResult{Tool: req.Tool, Message: msg, Delta: &delta}
}
