package coordinatornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

// GraphState travels through the coordinator pipeline for one turn.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session     *statex.QuoteState
	Plan        contractx.PlanResponse
	ToolResults []contractx.ToolResult

	Reply string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
