package coordinatornode

import (
	"context"
	"fmt"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
)

func ExecuteTools(ctx context.Context, in *GraphState, gateway contractx.ToolGateway) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	// Direct answer: nothing to execute this turn.
	if len(in.Plan.ToolRequests) == 0 {
		in.Reply = in.Plan.Message
		return in, nil
	}

	results, err := gateway.Execute(ctx, in.Session, in.Plan.ToolRequests)
	if err != nil {
		return nil, err
	}

	in.ToolResults = results
	return in, nil
}
