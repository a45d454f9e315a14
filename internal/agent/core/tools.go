package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/newsagent/models"
	"github.com/mohammad-safakhou/newsagent/news"
	"github.com/mohammad-safakhou/newsagent/provider"
)

// ToolName identifies one registered tool
type ToolName string

const (
	ToolGetNewsWithSummary ToolName = "get_news_with_summary"
	ToolFetchNews          ToolName = "fetch_news"
	ToolSummarizeNews      ToolName = "summarize_news"
)

// ArticleFetcher retrieves articles for a normalized topic query.
type ArticleFetcher interface {
	FetchArticles(ctx context.Context, query models.NewsQuery) ([]models.Article, error)
}

// ArticleSummarizer produces one summary covering a set of articles.
type ArticleSummarizer interface {
	SummarizeArticles(ctx context.Context, articles []models.Article) (models.SummaryResult, error)
}

// ToolResult is the outcome of one dispatched tool call. Errors are carried
// as content so they can be folded back into the conversation as a
// tool-role turn; they never abort the session.
type ToolResult struct {
	Tool    ToolName
	Content string
	IsError bool
}

// newsArgs are the arguments of the two topic-driven tools. A missing count
// defaults and an out-of-range count clamps during query normalization.
type newsArgs struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// summarizeArgs are the arguments of the summarize tool.
type summarizeArgs struct {
	Articles []models.Article `json:"articles"`
}

// Toolset is the static catalog of the three news tools and their
// dispatcher.
type Toolset struct {
	fetcher    ArticleFetcher
	summarizer ArticleSummarizer
	logger     *log.Logger
}

// NewToolset wires the tool catalog over its two collaborators.
func NewToolset(fetcher ArticleFetcher, summarizer ArticleSummarizer, logger *log.Logger) *Toolset {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOOLS] ", log.LstdFlags)
	}
	return &Toolset{fetcher: fetcher, summarizer: summarizer, logger: logger}
}

// Definitions returns the tool schemas advertised to the model. The combined
// tool comes first and carries the strongest wording: ordering and
// description bias which tool the model picks.
func (t *Toolset) Definitions() []provider.ToolDefinition {
	return []provider.ToolDefinition{
		{
			Type: "function",
			Function: provider.FunctionDefinition{
				Name:        string(ToolGetNewsWithSummary),
				Description: "BEST TOOL: Fetch news articles on a topic AND provide a comprehensive summary in one operation. Use this for all news requests.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"topic": map[string]interface{}{
							"type":        "string",
							"description": "The topic to search for news articles",
						},
						"count": map[string]interface{}{
							"type":        "integer",
							"description": "Number of articles to fetch and summarize (default: 3, max: 10)",
						},
					},
					"required": []string{"topic"},
				},
			},
		},
		{
			Type: "function",
			Function: provider.FunctionDefinition{
				Name:        string(ToolFetchNews),
				Description: "Fetch the latest news articles on a given topic with full article content extraction",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"topic": map[string]interface{}{
							"type":        "string",
							"description": "The topic to search for news articles",
						},
						"count": map[string]interface{}{
							"type":        "integer",
							"description": "Number of articles to fetch (default: 3, max: 10)",
						},
					},
					"required": []string{"topic"},
				},
			},
		},
		{
			Type: "function",
			Function: provider.FunctionDefinition{
				Name:        string(ToolSummarizeNews),
				Description: "Create comprehensive summaries of news articles using their full content",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"articles": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"title":     map[string]interface{}{"type": "string"},
									"content":   map[string]interface{}{"type": "string"},
									"url":       map[string]interface{}{"type": "string"},
									"source":    map[string]interface{}{"type": "string"},
									"published": map[string]interface{}{"type": "string"},
								},
							},
							"description": "Array of news articles to summarize (should include full content)",
						},
					},
					"required": []string{"articles"},
				},
			},
		},
	}
}

// Dispatch routes one tool call to its handler. Unknown names and malformed
// arguments produce an error result for the model, never a session failure.
func (t *Toolset) Dispatch(ctx context.Context, call provider.ToolCall) ToolResult {
	name := ToolName(call.Function.Name)
	switch name {
	case ToolGetNewsWithSummary:
		args, err := decodeNewsArgs(call.Function.Arguments)
		if err != nil {
			return t.badArguments(name, err)
		}
		return t.getNewsWithSummary(ctx, args)
	case ToolFetchNews:
		args, err := decodeNewsArgs(call.Function.Arguments)
		if err != nil {
			return t.badArguments(name, err)
		}
		return t.fetchNews(ctx, args)
	case ToolSummarizeNews:
		var args summarizeArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return t.badArguments(name, err)
		}
		return t.summarizeNews(ctx, args)
	default:
		t.logger.Printf("unknown tool requested: %q", call.Function.Name)
		return ToolResult{
			Tool:    name,
			Content: fmt.Sprintf("Unknown tool: %s", call.Function.Name),
			IsError: true,
		}
	}
}

func decodeNewsArgs(raw string) (newsArgs, error) {
	var args newsArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return newsArgs{}, err
	}
	return args, nil
}

func (t *Toolset) badArguments(name ToolName, err error) ToolResult {
	t.logger.Printf("bad arguments for %s: %v", name, err)
	return ToolResult{
		Tool:    name,
		Content: fmt.Sprintf("Invalid arguments for %s: %v", name, err),
		IsError: true,
	}
}

func (t *Toolset) fetchNews(ctx context.Context, args newsArgs) ToolResult {
	articles, err := t.fetcher.FetchArticles(ctx, models.NewsQuery{Topic: args.Topic, Count: args.Count})
	if err != nil {
		t.logger.Printf("fetch_news %q: %v", args.Topic, err)
		return ToolResult{
			Tool:    ToolFetchNews,
			Content: fmt.Sprintf("Error fetching news: %v", err),
			IsError: true,
		}
	}
	return ToolResult{
		Tool:    ToolFetchNews,
		Content: news.FormatArticles(args.Topic, articles),
	}
}

func (t *Toolset) summarizeNews(ctx context.Context, args summarizeArgs) ToolResult {
	if len(args.Articles) == 0 {
		return ToolResult{
			Tool:    ToolSummarizeNews,
			Content: "No articles provided to summarize",
			IsError: true,
		}
	}
	summary, err := t.summarizer.SummarizeArticles(ctx, args.Articles)
	if err != nil {
		t.logger.Printf("summarize_news: %v", err)
		return ToolResult{
			Tool:    ToolSummarizeNews,
			Content: fmt.Sprintf("Error summarizing news: %v", err),
			IsError: true,
		}
	}
	return ToolResult{
		Tool:    ToolSummarizeNews,
		Content: news.FormatSummary(summary.Text),
	}
}

func (t *Toolset) getNewsWithSummary(ctx context.Context, args newsArgs) ToolResult {
	articles, err := t.fetcher.FetchArticles(ctx, models.NewsQuery{Topic: args.Topic, Count: args.Count})
	if errors.Is(err, news.ErrNoArticles) {
		return ToolResult{
			Tool:    ToolGetNewsWithSummary,
			Content: fmt.Sprintf("Error fetching news for topic: %s", args.Topic),
			IsError: true,
		}
	}
	if err != nil {
		t.logger.Printf("get_news_with_summary %q: %v", args.Topic, err)
		return ToolResult{
			Tool:    ToolGetNewsWithSummary,
			Content: fmt.Sprintf("Error getting news with summary: %v", err),
			IsError: true,
		}
	}

	summary, err := t.summarizer.SummarizeArticles(ctx, articles)
	if err != nil {
		t.logger.Printf("get_news_with_summary summarize %q: %v", args.Topic, err)
		return ToolResult{
			Tool:    ToolGetNewsWithSummary,
			Content: fmt.Sprintf("Error getting news with summary: %v", err),
			IsError: true,
		}
	}

	return ToolResult{
		Tool:    ToolGetNewsWithSummary,
		Content: news.FormatCombined(args.Topic, articles, news.FormatSummary(summary.Text)),
	}
}
