package contract

import (
	"time"

	statex "github.com/salesdesk/quoting-agent/agent/state"
)

type AgentType string

const (
	AgentTypeCoordinator AgentType = "coordinator"
	AgentTypeCatalog     AgentType = "catalog"
	AgentTypePromotions  AgentType = "promotions"
)

// PlanRequest asks the coordinator model what to do with a consultant turn.
type PlanRequest struct {
	UserMessage string             `json:"user_message"`
	Session     *statex.QuoteState `json:"session"`
	Now         time.Time          `json:"now"`
}

// PlanResponse is either a direct reply or a batch of tool invocations.
type PlanResponse struct {
	Message      string        `json:"message,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

// RespondRequest asks the coordinator model to phrase the turn's answer
// from the executed tool results.
type RespondRequest struct {
	UserMessage string             `json:"user_message"`
	Session     *statex.QuoteState `json:"session"`
	ToolResults []ToolResult       `json:"tool_results"`
}

// ToolRequest is one named, schema-validated action the model asked for.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries the free-text outcome of one tool call plus the state
// delta the conversation loop must fold into the session. Domain failures
// (unknown product, invalid payment method, empty cart) travel in Error as
// human-readable messages and never abort the turn.
type ToolResult struct {
	Tool    string             `json:"tool"`
	Message string             `json:"message,omitempty"`
	Delta   *statex.StateDelta `json:"delta,omitempty"`
	Error   string             `json:"error,omitempty"`
}
