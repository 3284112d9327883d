package coordinatornode

import (
	"fmt"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
)

// ApplyDeltas folds every tool-produced state delta into the session, in
// execution order. Results without a delta (lookups, validation failures)
// leave the state untouched.
func ApplyDeltas(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	for _, res := range in.ToolResults {
		if res.Delta == nil {
			continue
		}
		if err := in.Session.Apply(*res.Delta, in.Now); err != nil {
			return nil, fmt.Errorf("apply delta from tool=%s: %w", res.Tool, err)
		}
	}
	return in, nil
}
