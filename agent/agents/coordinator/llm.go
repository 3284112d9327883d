package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/salesdesk/quoting-agent/agent/contract"
	llmx "github.com/salesdesk/quoting-agent/agent/llm"
	promptx "github.com/salesdesk/quoting-agent/agent/prompt"
	statex "github.com/salesdesk/quoting-agent/agent/state"
	toolx "github.com/salesdesk/quoting-agent/agent/tool"
)

// llmPlanner decides per turn between a direct reply and tool invocations,
// backed by a tool-calling chat model.
type llmPlanner struct {
	runner       compose.Runnable[map[string]any, *schema.Message]
	allowedTools map[string]struct{}
}

var _ contractx.ToolPlanner = (*llmPlanner)(nil)

// llmResponder phrases the final answer of a tool turn.
type llmResponder struct {
	runner compose.Runnable[map[string]any, responderLLMOutput]
}

var _ contractx.Responder = (*llmResponder)(nil)

type responderLLMOutput struct {
	Message string `json:"message"`
}

// NewLLM builds the planner and responder from one LLM configuration.
func NewLLM(ctx context.Context, cfg llmx.Config) (contractx.ToolPlanner, contractx.Responder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	prompts := promptx.LoadPromptSet()

	plannerModelCfg := cfg.OpenRouterFor(llmx.RolePlanner)
	plannerModel, err := plannerModelCfg.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create planner model: %v", contractx.ErrModelInvoke, err)
	}

	infos := toolx.Infos()
	toolModel, err := plannerModel.WithTools(infos)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bind coordinator tools: %v", contractx.ErrModelInvoke, err)
	}

	plannerRunner, err := compileToolPlanningGraph(ctx, toolModel, prompts.Coordinator)
	if err != nil {
		return nil, nil, err
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			continue
		}
		allowed[info.Name] = struct{}{}
	}

	responderModelCfg := cfg.OpenRouterFor(llmx.RoleResponder)
	responderModel, err := responderModelCfg.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create responder model: %v", contractx.ErrModelInvoke, err)
	}

	responderRunner, err := compileStructuredLLMGraph[responderLLMOutput](ctx, responderModel, prompts.Responder, "coordinator.responder_graph")
	if err != nil {
		return nil, nil, err
	}

	planner := &llmPlanner{runner: plannerRunner, allowedTools: allowed}
	responder := &llmResponder{runner: responderRunner}
	return planner, responder, nil
}

func (p *llmPlanner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.PlanResponse{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"user_message": req.UserMessage,
		"session":      summarizeSession(req.Session),
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.PlanResponse{}, fmt.Errorf("%w: marshal planner payload: %v", contractx.ErrValidation, err)
	}

	msg, err := p.runner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return contractx.PlanResponse{}, fmt.Errorf("%w: planner invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.PlanResponse{}, fmt.Errorf("%w: empty planner response", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.PlanResponse{}, err
	}

	if len(toolRequests) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return contractx.PlanResponse{}, fmt.Errorf("%w: planner produced neither message nor tool calls", contractx.ErrSchemaViolation)
		}
		return contractx.PlanResponse{Message: content}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := p.allowedTools[tr.Tool]; !ok {
			return contractx.PlanResponse{}, fmt.Errorf("%w: tool=%s is not allowed", contractx.ErrSchemaViolation, tr.Tool)
		}
	}

	return contractx.PlanResponse{ToolRequests: toolRequests}, nil
}

func (r *llmResponder) Respond(ctx context.Context, req contractx.RespondRequest) (string, error) {
	payload := map[string]any{
		"user_message": req.UserMessage,
		"session":      summarizeSession(req.Session),
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal responder payload: %v", contractx.ErrValidation, err)
	}

	out, err := r.runner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return "", fmt.Errorf("%w: responder invoke: %v", contractx.ErrModelInvoke, err)
	}

	message := strings.TrimSpace(out.Message)
	if message == "" {
		return "", fmt.Errorf("%w: responder message is empty", contractx.ErrSchemaViolation)
	}
	return message, nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{Tool: tool, Args: args})
	}
	return reqs, nil
}

// summarizeSession projects the quote state into the compact JSON shape the
// prompts describe.
func summarizeSession(st *statex.QuoteState) map[string]any {
	if st == nil {
		return map[string]any{}
	}

	products := make([]map[string]any, 0, len(st.Products))
	for id, line := range st.Products {
		products = append(products, map[string]any{
			"product_id":  id,
			"description": line.Description,
			"quantity":    line.Quantity,
		})
	}

	summary := map[string]any{
		"products":     products,
		"total_amount": st.TotalAmount.String(),
	}
	if st.PaymentMethod != "" {
		summary["payment_method"] = st.PaymentMethod
	}
	if st.PaymentPlan != nil {
		summary["payment_plan"] = st.PaymentPlan
	}
	if st.Customer != nil {
		summary["customer"] = st.Customer
	}
	return summary
}
