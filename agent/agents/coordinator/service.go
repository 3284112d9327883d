package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	nodex "github.com/salesdesk/quoting-agent/agent/nodes"
	statex "github.com/salesdesk/quoting-agent/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Coordinator drives one sales conversation turn at a time: it plans tool
// usage, executes the plan against the gateway, folds the resulting deltas
// into the session, and phrases a reply.
type Coordinator struct {
	store     statex.Store
	planner   contractx.ToolPlanner
	responder contractx.Responder
	tools     contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	store statex.Store,
	planner contractx.ToolPlanner,
	responder contractx.Responder,
	tools contractx.ToolGateway,
) (*Coordinator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if planner == nil {
		return nil, errors.New("tool planner is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	c := &Coordinator{
		store:     store,
		planner:   planner,
		responder: responder,
		tools:     tools,
		now:       time.Now,
	}

	graphRunner, err := c.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

func (c *Coordinator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
