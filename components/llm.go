package components

// LLMUsage token usage reported by a provider
type LLMUsage struct {
	InputTokens  int64 `json:"input_tokens,omitempty"`
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

func (u *LLMUsage) Merge(v *LLMUsage) {
	if v == nil {
		return
	}
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}

// Completion is a model answer to a tool-calling request: free text plus
// zero or more structured tool calls in the order the model emitted them.
type Completion struct {
	ID        string     `json:"id,omitempty"`
	Model     string     `json:"model,omitempty"`
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Usage     *LLMUsage  `json:"usage,omitempty"`
}
