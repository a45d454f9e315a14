package models

import (
	"errors"
	"strings"
)

// ErrEmptyTopic is returned when a news query is missing its topic.
var ErrEmptyTopic = errors.New("topic must not be empty")

// PlaceholderContent stands in for article text when both full-content
// extraction and the search snippet came back empty.
const PlaceholderContent = "Content extraction failed"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ConversationTurn is a single entry in a conversation history. Histories are
// ordered and append-only within a request.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// The five tracked preference categories.
const (
	PrefToneOfVoice      = "tone_of_voice"
	PrefResponseFormat   = "response_format"
	PrefLanguage         = "language_preference"
	PrefInteractionStyle = "interaction_style"
	PrefNewsTopics       = "news_topics"
)

// PreferenceKeys lists the tracked preference categories in display order.
// UserPreferences never holds keys outside this set.
var PreferenceKeys = []string{
	PrefToneOfVoice,
	PrefResponseFormat,
	PrefLanguage,
	PrefInteractionStyle,
	PrefNewsTopics,
}

// UserPreferences maps the fixed preference keys to free-text values. A key
// is either absent or holds a non-empty string.
type UserPreferences map[string]string

// Clone returns a copy holding only the tracked keys with non-empty values.
func (p UserPreferences) Clone() UserPreferences {
	out := make(UserPreferences, len(PreferenceKeys))
	for _, k := range PreferenceKeys {
		if v, ok := p[k]; ok && v != "" {
			out[k] = v
		}
	}
	return out
}

// PreferenceCompletion maps each tracked preference key to whether a value
// has been recorded. Always derived from a UserPreferences map, never
// mutated independently.
type PreferenceCompletion map[string]bool

const (
	// DefaultArticleCount is used when a news query omits the count.
	DefaultArticleCount = 3
	// MinArticleCount and MaxArticleCount bound the per-query article count.
	MinArticleCount = 1
	MaxArticleCount = 10
)

// NewsQuery describes one news retrieval request.
type NewsQuery struct {
	Topic string `json:"topic"`
	Count int    `json:"count,omitempty"`
}

// Normalize trims the topic, applies the count default and clamps the count
// into range. A missing topic is the only error; out-of-range counts clamp.
func (q NewsQuery) Normalize() (NewsQuery, error) {
	q.Topic = strings.TrimSpace(q.Topic)
	if q.Topic == "" {
		return q, ErrEmptyTopic
	}
	switch {
	case q.Count == 0:
		q.Count = DefaultArticleCount
	case q.Count < MinArticleCount:
		q.Count = MinArticleCount
	case q.Count > MaxArticleCount:
		q.Count = MaxArticleCount
	}
	return q, nil
}

// ExtractionStatus records how an article's body text was obtained.
type ExtractionStatus string

const (
	// ExtractionFull means the full article content was retrieved.
	ExtractionFull ExtractionStatus = "full"
	// ExtractionFallback means retrieval failed and the search snippet is
	// standing in for the body.
	ExtractionFallback ExtractionStatus = "fallback"
	// ExtractionMissing means neither full content nor a snippet was
	// available; the body is the placeholder string.
	ExtractionMissing ExtractionStatus = "missing"
)

// Article is one news article within a result set. URL is unique within a
// result set. FullContent is set only when Extraction is ExtractionFull.
type Article struct {
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Source      string           `json:"source,omitempty"`
	PublishedAt string           `json:"published,omitempty"`
	Snippet     string           `json:"snippet,omitempty"`
	FullContent string           `json:"content,omitempty"`
	Extraction  ExtractionStatus `json:"extraction_status,omitempty"`
}

// Text returns the best available body text: full content, then snippet,
// then the fixed placeholder. Never empty.
func (a Article) Text() string {
	if a.FullContent != "" {
		return a.FullContent
	}
	if a.Snippet != "" {
		return a.Snippet
	}
	return PlaceholderContent
}

// DisplaySource is the source name for user-facing output.
func (a Article) DisplaySource() string {
	if a.Source == "" {
		return "Unknown source"
	}
	return a.Source
}

// DisplayDate is the publication date for user-facing output.
func (a Article) DisplayDate() string {
	if a.PublishedAt == "" {
		return "Unknown date"
	}
	return a.PublishedAt
}

// DisplayTitle is the title for user-facing output.
func (a Article) DisplayTitle() string {
	if a.Title == "" {
		return "No title"
	}
	return a.Title
}

// SummaryResult is the output of summarizing a list of articles: per-article
// key points plus a cross-article synthesis when more than one article was
// summarized.
type SummaryResult struct {
	Text string `json:"text"`
}
