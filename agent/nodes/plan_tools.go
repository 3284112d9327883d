package coordinatornode

import (
	"context"
	"fmt"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
)

func PlanTools(ctx context.Context, in *GraphState, planner contractx.ToolPlanner) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	plan, err := planner.Plan(ctx, contractx.PlanRequest{
		UserMessage: in.Text,
		Session:     in.Session,
		Now:         in.Now,
	})
	if err != nil {
		return nil, err
	}

	in.Plan = plan
	return in, nil
}
