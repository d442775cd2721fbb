// Package llm is a minimal client for OpenAI-compatible chat-completion
// endpoints with function calling. The rest of the system treats the
// provider as a black box that returns either text or tool-call requests.
package llm

import "encoding/json"

type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name string `json:"name"`
	// Arguments is the raw JSON argument object as produced by the model.
	// It may be malformed; callers must tolerate that.
	Arguments string `json:"arguments"`
}

type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ChatResponse is a single completion: either plain content (terminal) or
// one or more tool-call requests.
type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}
