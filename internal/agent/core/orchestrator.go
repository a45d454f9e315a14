package core

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/newsagent/internal/agent/telemetry"
	"github.com/mohammad-safakhou/newsagent/models"
	"github.com/mohammad-safakhou/newsagent/prefs"
	"github.com/mohammad-safakhou/newsagent/provider"
)

// TurnState describes where a turn ended up
type TurnState string

const (
	StateAwaitingModel TurnState = "awaiting_model"
	StateExecutingTool TurnState = "executing_tool"
	StateDone          TurnState = "done"
	StateFailed        TurnState = "failed"
)

// maxToolRounds caps model invocations within one turn. The model may keep
// requesting tools; after this many rounds the turn ends with an apology
// instead of looping.
const maxToolRounds = 3

// Conversational completion knobs.
const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
)

// CompletionClient is the slice of the LLM provider the orchestrator uses.
type CompletionClient interface {
	ChatCompletion(ctx context.Context, messages []provider.Message, opts provider.ChatOptions) (provider.ChatResult, error)
}

// ToolDispatcher is the slice of the toolset the orchestrator uses.
type ToolDispatcher interface {
	Definitions() []provider.ToolDefinition
	Dispatch(ctx context.Context, call provider.ToolCall) ToolResult
}

// TurnRequest is one user turn together with the session-shaped state the
// caller owns: prior history and the preference map so far.
type TurnRequest struct {
	Message     string
	History     []models.ConversationTurn
	Preferences models.UserPreferences
}

// TurnResult carries the reply plus the updated session shape back to the
// caller. The orchestrator stores nothing between turns.
type TurnResult struct {
	Reply       string
	State       TurnState
	ToolUsed    string
	ToolResult  string
	Preferences models.UserPreferences
	Completion  models.PreferenceCompletion
}

// Orchestrator drives one conversation turn: preference tracking, the
// bounded tool loop, and the final reply.
type Orchestrator struct {
	llm       CompletionClient
	tools     ToolDispatcher
	tracker   *prefs.Tracker
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewOrchestrator wires an orchestrator. tracker and telemetry may be nil;
// they default to the keyword tracker and a disabled telemetry sink.
func NewOrchestrator(llm CompletionClient, tools ToolDispatcher, tracker *prefs.Tracker, tel *telemetry.Telemetry, logger *log.Logger) *Orchestrator {
	if tracker == nil {
		tracker = prefs.NewTracker(nil)
	}
	if tel == nil {
		tel = telemetry.NewTelemetry(false, false)
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCHESTRATOR] ", log.LstdFlags)
	}
	return &Orchestrator{llm: llm, tools: tools, tracker: tracker, telemetry: tel, logger: logger}
}

// ProcessTurn runs one turn to completion and always returns a usable
// result: tool and model failures degrade to apologetic replies rather than
// surfacing as errors.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) TurnResult {
	turnID := uuid.NewString()
	start := time.Now()

	merged, completion := o.tracker.Observe(req.Message, req.Preferences)
	result := TurnResult{
		State:       StateAwaitingModel,
		Preferences: merged,
		Completion:  completion,
	}

	var llmCalls int
	var tokens int64
	defer func() {
		o.telemetry.RecordTurnEvent(ctx, telemetry.TurnEvent{
			ID:         turnID,
			StartTime:  start,
			EndTime:    time.Now(),
			Duration:   time.Since(start),
			Success:    result.State != StateFailed,
			ToolUsed:   result.ToolUsed,
			LLMCalls:   llmCalls,
			TokensUsed: tokens,
		})
	}()

	// A fresh session gets the preference questions without a model call.
	if len(req.History) == 0 {
		result.Reply = initialPreferencesGreeting
		result.State = StateDone
		return result
	}

	messages := make([]provider.Message, 0, len(req.History)+2)
	messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: chatSystemPrompt})
	for _, turn := range req.History {
		messages = append(messages, provider.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: req.Message})

	opts := provider.ChatOptions{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		Tools:       o.tools.Definitions(),
		ToolChoice:  provider.ToolChoiceAuto,
	}

	for round := 1; round <= maxToolRounds; round++ {
		resp, err := o.llm.ChatCompletion(ctx, messages, opts)
		llmCalls++
		if err != nil {
			o.logger.Printf("turn %s: completion failed: %v", turnID, err)
			result.Reply = llmFailureApology
			result.State = StateFailed
			return result
		}
		tokens += resp.PromptTokens + resp.CompletionTokens

		if len(resp.ToolCalls) == 0 {
			result.Reply = resp.Content
			result.State = StateDone
			return result
		}

		if round == maxToolRounds {
			// No model call remains to consume tool output.
			break
		}

		result.State = StateExecutingTool
		messages = append(messages, provider.Message{
			Role:      provider.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			toolStart := time.Now()
			tr := o.tools.Dispatch(ctx, call)
			o.telemetry.RecordToolEvent(ctx, telemetry.ToolEvent{
				Tool:     call.Function.Name,
				Duration: time.Since(toolStart),
				Success:  !tr.IsError,
				Error:    errorContent(tr),
			})
			result.ToolUsed = call.Function.Name
			result.ToolResult = tr.Content
			messages = append(messages, provider.Message{
				Role:       provider.RoleTool,
				Content:    tr.Content,
				ToolCallID: call.ID,
			})
		}
	}

	o.logger.Printf("turn %s: tool rounds exhausted after %d model calls", turnID, llmCalls)
	result.Reply = toolLoopApology
	result.State = StateDone
	return result
}

func errorContent(tr ToolResult) string {
	if tr.IsError {
		return tr.Content
	}
	return ""
}
