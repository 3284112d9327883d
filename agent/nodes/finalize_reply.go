package coordinatornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
)

// FinalizeReply produces the turn's answer. A direct reply from planning is
// returned as-is; a tool turn is phrased by the responder model, falling
// back to the raw tool messages when the responder is unavailable.
func FinalizeReply(ctx context.Context, in *GraphState, responder contractx.Responder) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if reply := strings.TrimSpace(in.Reply); reply != "" {
		return GraphOutput{Reply: reply}, nil
	}

	if len(in.ToolResults) == 0 {
		return GraphOutput{}, fmt.Errorf("%w: coordinator produced neither reply nor tool results", contractx.ErrValidation)
	}

	if responder != nil {
		reply, err := responder.Respond(ctx, contractx.RespondRequest{
			UserMessage: in.Text,
			Session:     in.Session,
			ToolResults: in.ToolResults,
		})
		if err != nil {
			return GraphOutput{}, err
		}
		if reply = strings.TrimSpace(reply); reply != "" {
			return GraphOutput{Reply: reply}, nil
		}
	}

	var parts []string
	for _, res := range in.ToolResults {
		if res.Error != "" {
			parts = append(parts, res.Error)
			continue
		}
		if res.Message != "" {
			parts = append(parts, res.Message)
		}
	}
	if len(parts) == 0 {
		return GraphOutput{}, fmt.Errorf("%w: tool results carry no messages", contractx.ErrValidation)
	}
	return GraphOutput{Reply: strings.Join(parts, "\n\n")}, nil
}
