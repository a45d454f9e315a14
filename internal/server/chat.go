package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/newsagent/internal/agent/core"
	"github.com/mohammad-safakhou/newsagent/models"
)

// TurnRunner processes one conversation turn to completion.
type TurnRunner interface {
	ProcessTurn(ctx context.Context, req core.TurnRequest) core.TurnResult
}

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	Runner TurnRunner
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chat", h.chat)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message             string                 `json:"message"`
	ConversationHistory []chatMessage          `json:"conversation_history"`
	UserPreferences     models.UserPreferences `json:"user_preferences"`
}

type chatResponse struct {
	Response             string                      `json:"response"`
	ToolUsed             string                      `json:"tool_used,omitempty"`
	ToolResult           string                      `json:"tool_result,omitempty"`
	PreferencesCompleted models.PreferenceCompletion `json:"preferences_completed"`
	UserPreferences      models.UserPreferences      `json:"user_preferences"`
}

// chat runs one turn. The caller owns the session: it sends the history and
// preference map and receives the updated shape back with the reply.
func (h *ChatHandler) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	history := make([]models.ConversationTurn, 0, len(req.ConversationHistory))
	for _, m := range req.ConversationHistory {
		history = append(history, models.ConversationTurn{Role: models.Role(m.Role), Content: m.Content})
	}

	result := h.Runner.ProcessTurn(c.Request().Context(), core.TurnRequest{
		Message:     req.Message,
		History:     history,
		Preferences: req.UserPreferences,
	})

	return c.JSON(http.StatusOK, chatResponse{
		Response:             result.Reply,
		ToolUsed:             result.ToolUsed,
		ToolResult:           result.ToolResult,
		PreferencesCompleted: result.Completion,
		UserPreferences:      result.Preferences,
	})
}
