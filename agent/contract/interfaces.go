package contract

import (
	"context"

	statex "github.com/salesdesk/quoting-agent/agent/state"
)

// ToolPlanner decides, per consultant turn, between replying directly and
// requesting tool invocations.
type ToolPlanner interface {
	Plan(ctx context.Context, req PlanRequest) (PlanResponse, error)
}

// Responder phrases the final reply for a turn that executed tools.
type Responder interface {
	Respond(ctx context.Context, req RespondRequest) (string, error)
}

// ToolGateway executes tool requests against the current session state and
// returns one result per request, in order.
type ToolGateway interface {
	Execute(ctx context.Context, st *statex.QuoteState, reqs []ToolRequest) ([]ToolResult, error)
}

// CatalogAgent is the catalog-lookup collaborator: it answers product
// queries with consultant-readable text.
type CatalogAgent interface {
	SearchProducts(ctx context.Context, query string) (string, error)
	ProductByID(ctx context.Context, productID string) (string, error)
}

// PromotionsAgent is the promotions-lookup collaborator.
type PromotionsAgent interface {
	SearchPromotions(ctx context.Context, bank, creditCard string, installments int) (string, error)
	PromotionByID(ctx context.Context, promotionID string) (string, error)
}
