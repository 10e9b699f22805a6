// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
	"fmt"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model string
	// System carries instructions for the assistant.
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey, model string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// FromKeys picks a provider from the configured API keys. preferred wins when
// its key is set; otherwise the first provider with a key is used. It returns
// nil, nil when no key is configured.
func FromKeys(preferred Provider, anthropicKey, openAIKey, model string) (Client, error) {
	keys := map[Provider]string{
		ProviderAnthropic: anthropicKey,
		ProviderOpenAI:    openAIKey,
	}
	if key := keys[preferred]; key != "" {
		return NewClient(preferred, key, model)
	}
	for _, p := range []Provider{ProviderAnthropic, ProviderOpenAI} {
		if keys[p] != "" {
			return NewClient(p, keys[p], model)
		}
	}
	return nil, nil
}
