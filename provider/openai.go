package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
)

const (
	// DefaultBaseURL is the OpenAI API root used when none is configured.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultTimeout bounds a single completion round trip.
	DefaultTimeout = 60 * time.Second
)

// Summarization runs cooler and shorter than conversation.
const (
	summaryTemperature = 0.3
	summaryMaxTokens   = 800
)

const summarizerSystemPrompt = `You are an expert news summarizer. Create comprehensive, well-structured summaries of the given news articles.

Your summary should include:
1. Key facts and main points from each article
2. Important context and background information
3. Any significant quotes or statements
4. Implications or potential impact
5. Connections between articles if they're related

Maintain objectivity and focus on providing valuable insights. Format your response clearly with proper structure.`

// OpenAIClient implements Provider against the OpenAI chat-completions API.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI client. An empty apiKey falls back to
// the OPENAI_API_KEY environment variable; empty model, baseURL and timeout
// fall back to the package defaults.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ChatCompletion sends one completion request. When opts carries tools the
// request advertises them with tool_choice auto unless overridden, and the
// result surfaces any tool calls the model answered with.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []Message, opts ChatOptions) (ChatResult, error) {
	if c.apiKey == "" {
		return ChatResult{}, fmt.Errorf("OpenAI API key not configured")
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if len(opts.Tools) > 0 {
		reqBody.Tools = opts.Tools
		reqBody.ToolChoice = opts.ToolChoice
		if reqBody.ToolChoice == "" {
			reqBody.ToolChoice = ToolChoiceAuto
		}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return ChatResult{}, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return ChatResult{}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ChatResult{}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ChatResult{}, fmt.Errorf("OpenAI status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ChatResult{}, fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return ChatResult{}, fmt.Errorf("no choices")
	}

	choice := out.Choices[0]
	return ChatResult{
		Content:          choice.Message.Content,
		ToolCalls:        choice.Message.ToolCalls,
		PromptTokens:     int64(out.Usage.PromptTokens),
		CompletionTokens: int64(out.Usage.CompletionTokens),
	}, nil
}

// SummarizeArticles asks the model for one comprehensive summary covering
// every provided article. Articles whose extraction failed are flagged in
// the prompt so the model reports the gap instead of inventing content.
func (c *OpenAIClient) SummarizeArticles(ctx context.Context, articles []models.Article) (models.SummaryResult, error) {
	if len(articles) == 0 {
		return models.SummaryResult{}, fmt.Errorf("no articles to summarize")
	}

	var b strings.Builder
	for i, a := range articles {
		body := a.Text()
		if a.Extraction == models.ExtractionMissing {
			body += " [full text unavailable; note this gap in the summary instead of inventing details]"
		}
		fmt.Fprintf(&b, "Article %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", a.DisplayTitle())
		fmt.Fprintf(&b, "Source: %s\n", a.DisplaySource())
		fmt.Fprintf(&b, "Published: %s\n", a.DisplayDate())
		fmt.Fprintf(&b, "Content: %s\n\n", body)
	}

	messages := []Message{
		{Role: RoleSystem, Content: summarizerSystemPrompt},
		{Role: RoleUser, Content: "Please provide a comprehensive summary of these news articles:\n\n" + b.String()},
	}

	result, err := c.ChatCompletion(ctx, messages, ChatOptions{
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return models.SummaryResult{}, err
	}
	return models.SummaryResult{Text: result.Content}, nil
}
