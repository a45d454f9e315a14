package telemetry

import (
	"context"
	"log"
	"sync"
	"time"
)

// Telemetry tracks conversation turn, tool and LLM usage metrics
type Telemetry struct {
	enabled      bool
	periodicLogs bool
	logger       *log.Logger
	metrics      *Metrics
	mu           sync.RWMutex
}

// Metrics holds various performance metrics
type Metrics struct {
	// Turn metrics
	TotalTurns      int64
	SuccessfulTurns int64
	FailedTurns     int64
	AverageTurnTime time.Duration

	// Tool metrics
	ToolExecutions   map[string]int64
	ToolSuccessRates map[string]float64
	ToolAverageTimes map[string]time.Duration

	// LLM metrics
	LLMRequests   int64
	LLMTokensUsed int64
}

// TurnEvent represents a single conversation turn
type TurnEvent struct {
	ID         string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Success    bool
	Error      string
	ToolUsed   string
	LLMCalls   int
	TokensUsed int64
}

// ToolEvent represents a tool execution event
type ToolEvent struct {
	Tool     string
	Duration time.Duration
	Success  bool
	Error    string
}

// NewTelemetry creates a new telemetry instance
func NewTelemetry(enabled, periodicLogs bool) *Telemetry {
	t := &Telemetry{
		enabled:      enabled,
		periodicLogs: periodicLogs,
		logger:       log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			ToolExecutions:   make(map[string]int64),
			ToolSuccessRates: make(map[string]float64),
			ToolAverageTimes: make(map[string]time.Duration),
		},
	}

	if enabled && periodicLogs {
		go t.startMetricsCollection()
	}

	return t
}

// RecordTurnEvent records a completed conversation turn
func (t *Telemetry) RecordTurnEvent(ctx context.Context, event TurnEvent) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalTurns++
	if event.Success {
		t.metrics.SuccessfulTurns++
	} else {
		t.metrics.FailedTurns++
	}

	// Update average turn time
	if t.metrics.TotalTurns == 1 {
		t.metrics.AverageTurnTime = event.Duration
	} else {
		total := t.metrics.AverageTurnTime * time.Duration(t.metrics.TotalTurns-1)
		t.metrics.AverageTurnTime = (total + event.Duration) / time.Duration(t.metrics.TotalTurns)
	}

	t.metrics.LLMRequests += int64(event.LLMCalls)
	t.metrics.LLMTokensUsed += event.TokensUsed

	t.logger.Printf("Turn Event: ID=%s, Success=%t, Duration=%v, Tool=%s, LLMCalls=%d, Tokens=%d",
		event.ID, event.Success, event.Duration, event.ToolUsed, event.LLMCalls, event.TokensUsed)
}

// RecordToolEvent records a tool execution event
func (t *Telemetry) RecordToolEvent(ctx context.Context, event ToolEvent) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.ToolExecutions[event.Tool]++

	// Update success rate
	currentSuccess := t.metrics.ToolSuccessRates[event.Tool] * float64(t.metrics.ToolExecutions[event.Tool]-1)
	if event.Success {
		currentSuccess += 1.0
	}
	t.metrics.ToolSuccessRates[event.Tool] = currentSuccess / float64(t.metrics.ToolExecutions[event.Tool])

	// Update average time
	currentAvg := t.metrics.ToolAverageTimes[event.Tool]
	executions := t.metrics.ToolExecutions[event.Tool]
	if executions == 1 {
		t.metrics.ToolAverageTimes[event.Tool] = event.Duration
	} else {
		total := currentAvg * time.Duration(executions-1)
		t.metrics.ToolAverageTimes[event.Tool] = (total + event.Duration) / time.Duration(executions)
	}

	t.logger.Printf("Tool Event: Tool=%s, Success=%t, Duration=%v",
		event.Tool, event.Success, event.Duration)
}

// GetMetrics returns current metrics snapshot
func (t *Telemetry) GetMetrics() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	// Create a deep copy to avoid race conditions
	metrics := *t.metrics
	metrics.ToolExecutions = make(map[string]int64)
	metrics.ToolSuccessRates = make(map[string]float64)
	metrics.ToolAverageTimes = make(map[string]time.Duration)

	for k, v := range t.metrics.ToolExecutions {
		metrics.ToolExecutions[k] = v
	}
	for k, v := range t.metrics.ToolSuccessRates {
		metrics.ToolSuccessRates[k] = v
	}
	for k, v := range t.metrics.ToolAverageTimes {
		metrics.ToolAverageTimes[k] = v
	}

	return metrics
}

// startMetricsCollection starts periodic metrics collection
func (t *Telemetry) startMetricsCollection() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		metrics := t.GetMetrics()

		t.logger.Printf("Metrics Snapshot: Turns=%d/%d, AvgTime=%v, LLMRequests=%d, Tokens=%d",
			metrics.SuccessfulTurns, metrics.TotalTurns,
			metrics.AverageTurnTime, metrics.LLMRequests, metrics.LLMTokensUsed)
	}
}
