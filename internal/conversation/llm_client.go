package conversation

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TokenUsage reports token accounting for one completion, when the provider
// exposes it.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest carries one fully built prompt. Each call is stateless: the
// prompt already embeds the knowledge template and the latest user message,
// and no conversation history is sent.
type LLMRequest struct {
	Prompt      string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the transport boundary to the hosted text-generation service.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
