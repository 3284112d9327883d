package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	quotex "github.com/salesdesk/quoting-agent/agent/quote"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

const (
	ToolCatalogSearch    = "catalog.search"
	ToolCatalogGet       = "catalog.get_product"
	ToolPromotionsSearch = "promotions.search"
	ToolCartAdd          = "cart.add_product"
	ToolCartRemove       = "cart.remove_product"
	ToolSetPaymentMethod = "cart.set_payment_method"
	ToolSetPaymentPlan   = "cart.set_payment_plan"
	ToolSetCustomer      = "cart.set_customer"
	ToolGenerateQuote    = "quote.generate"
)

// Gateway executes the coordinator's tool calls against the lookup
// collaborators, the quote generator, and the session state.
type Gateway struct {
	catalog    contractx.CatalogAgent
	promotions contractx.PromotionsAgent
	quotes     *quotex.Generator
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(catalog contractx.CatalogAgent, promotions contractx.PromotionsAgent, quotes *quotex.Generator) *Gateway {
	return &Gateway{
		catalog:    catalog,
		promotions: promotions,
		quotes:     quotes,
	}
}

// Execute runs each request in order against the state snapshot it was
// given. Domain failures become result messages; only infrastructure
// problems surface as errors.
func (g *Gateway) Execute(ctx context.Context, st *statex.QuoteState, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		log.Debug().
			Str("tool", req.Tool).
			Str("agent", string(agentFor(req.Tool))).
			Str("session_id", st.SessionID).
			Msg("executing tool")
		res, err := g.executeOne(ctx, st, req)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (g *Gateway) executeOne(ctx context.Context, st *statex.QuoteState, req contractx.ToolRequest) (contractx.ToolResult, error) {
	switch req.Tool {
	case ToolCatalogSearch:
		query, err := stringArg(req.Args, "query")
		if err != nil {
			return errResult(req.Tool, err), nil
		}
		msg, err := g.catalog.SearchProducts(ctx, query)
		if err != nil {
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: req.Tool, Message: msg}, nil

	case ToolCatalogGet:
		id, err := stringArg(req.Args, "product_id")
		if err != nil {
			return errResult(req.Tool, err), nil
		}
		msg, err := g.catalog.ProductByID(ctx, id)
		if err != nil {
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: req.Tool, Message: msg}, nil

	case ToolPromotionsSearch:
		bank := optionalStringArg(req.Args, "bank")
		card := optionalStringArg(req.Args, "credit_card")
		installments := optionalIntArg(req.Args, "installments")
		msg, err := g.promotions.SearchPromotions(ctx, bank, card, installments)
		if err != nil {
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: req.Tool, Message: msg}, nil

	case ToolCartAdd:
		return addProduct(st, req), nil
	case ToolCartRemove:
		return removeProduct(st, req), nil
	case ToolSetPaymentMethod:
		return setPaymentMethod(req), nil
	case ToolSetPaymentPlan:
		return setPaymentPlan(req), nil
	case ToolSetCustomer:
		return setCustomer(req), nil
	case ToolGenerateQuote:
		return g.generateQuote(st, req), nil

	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is not available", req.Tool),
		}, nil
	}
}

// Infos describes the tool surface for binding to the chat model.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolCatalogSearch,
			Desc: "Search the product catalog by name or description; returns matches with prices.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search term, e.g. a product name", Required: true},
			}),
		},
		{
			Name: ToolCatalogGet,
			Desc: "Get one product with its full price tiers by product id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Unique product identifier", Required: true},
			}),
		},
		{
			Name: ToolPromotionsSearch,
			Desc: "Search available promotions. Omitted filters are not applied.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"bank":         {Type: schema.String, Desc: "Bank code, e.g. GALICIA"},
				"credit_card":  {Type: schema.String, Desc: "Card brand, e.g. VISA"},
				"installments": {Type: schema.Integer, Desc: "Desired installment count"},
			}),
		},
		{
			Name: ToolCartAdd,
			Desc: "Add a product line to the cart. Re-adding the same product id replaces the line.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id":  {Type: schema.String, Desc: "Unique product identifier", Required: true},
				"description": {Type: schema.String, Desc: "Product description", Required: true},
				"quantity":    {Type: schema.Integer, Desc: "Number of units, must be positive", Required: true},
			}),
		},
		{
			Name: ToolCartRemove,
			Desc: "Remove a product line from the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Unique product identifier", Required: true},
			}),
		},
		{
			Name: ToolSetPaymentMethod,
			Desc: "Set the payment method: CASH, WIRE, or CREDIT_CARD.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"payment_method": {Type: schema.String, Desc: "CASH, WIRE, or CREDIT_CARD", Required: true},
			}),
		},
		{
			Name: ToolSetPaymentPlan,
			Desc: "Set the credit card financing plan. Replaces any previous plan.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"bank":         {Type: schema.String, Desc: "Bank code", Required: true},
				"credit_card":  {Type: schema.String, Desc: "Card brand", Required: true},
				"installments": {Type: schema.Integer, Desc: "Number of installments, >= 1", Required: true},
				"promotion_id": {Type: schema.String, Desc: "Promotion id when one applies"},
			}),
		},
		{
			Name: ToolSetCustomer,
			Desc: "Set the customer's contact information. Replaces any previous values.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":  {Type: schema.String, Desc: "Customer full name", Required: true},
				"email": {Type: schema.String, Desc: "Customer email", Required: true},
				"phone": {Type: schema.String, Desc: "Customer phone", Required: true},
			}),
		},
		{
			Name: ToolGenerateQuote,
			Desc: "Generate the final priced quote document from the current cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}

// agentFor attributes a tool to the agent that serves it. Cart and quote
// operations belong to the coordinator itself.
func agentFor(tool string) contractx.AgentType {
	switch {
	case strings.HasPrefix(tool, "catalog."):
		return contractx.AgentTypeCatalog
	case strings.HasPrefix(tool, "promotions."):
		return contractx.AgentTypePromotions
	default:
		return contractx.AgentTypeCoordinator
	}
}

func errResult(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}
