package coordinatornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		st = statex.NewQuoteState(in.SessionID, in.Now)
	}

	st.EnsureProductsMap()
	in.Session = st
	return in, nil
}
