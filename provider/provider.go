package provider

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Conversation roles on the chat-completions wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolChoiceAuto lets the model decide whether to call a tool.
const ToolChoiceAuto = "auto"

// Message is a single chat-completions message. Assistant messages may carry
// tool calls; tool messages carry the id of the call they answer.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the called function name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition is the schema advertised to the model for one tool.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a tool's name, description and parameters.
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ChatOptions carries the per-call knobs of a chat completion.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
	Tools       []ToolDefinition
	ToolChoice  string
}

// ChatResult is the decoded outcome of one chat completion.
type ChatResult struct {
	Content          string
	ToolCalls        []ToolCall
	PromptTokens     int64
	CompletionTokens int64
}

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	ChatCompletion(ctx context.Context, messages []Message, opts ChatOptions) (ChatResult, error)
	SummarizeArticles(ctx context.Context, articles []models.Article) (models.SummaryResult, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(client Client, apiKey, model, baseURL string, timeout time.Duration) (Provider, error) {
	switch client {
	case OpenAI:
		return NewOpenAIClient(apiKey, model, baseURL, timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
