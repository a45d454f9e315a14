package prefs

import (
	"strings"

	"github.com/mohammad-safakhou/newsagent/models"
)

// Detector extracts preference fields from one raw user utterance. It
// returns only the delta of newly detected fields; merging the delta into
// the running map is the Tracker's job. Implementations may consult the
// existing map but must not mutate it.
type Detector interface {
	Detect(utterance string, existing models.UserPreferences) models.UserPreferences
}

// Tracker is the single authority for preference aggregation: it merges
// detected deltas into the caller-supplied map and derives the completion
// snapshot. It holds no state of its own.
type Tracker struct {
	detector Detector
}

// NewTracker returns a Tracker using the given detector, defaulting to the
// keyword heuristics when nil.
func NewTracker(d Detector) *Tracker {
	if d == nil {
		d = KeywordDetector{}
	}
	return &Tracker{detector: d}
}

// Observe runs detection on the utterance and merges the delta into a copy
// of the supplied preferences. Unknown keys and empty values in the delta
// are dropped, so the returned map only ever holds the five tracked keys.
func (t *Tracker) Observe(utterance string, preferences models.UserPreferences) (models.UserPreferences, models.PreferenceCompletion) {
	merged := preferences.Clone()
	for k, v := range t.detector.Detect(utterance, merged) {
		if !tracked(k) {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		merged[k] = v
	}
	return merged, Completion(merged)
}

// Completion derives the per-key completion snapshot: true iff the key is
// present with a non-empty value. Each key is independent of the others.
func Completion(preferences models.UserPreferences) models.PreferenceCompletion {
	out := make(models.PreferenceCompletion, len(models.PreferenceKeys))
	for _, k := range models.PreferenceKeys {
		v, ok := preferences[k]
		out[k] = ok && v != ""
	}
	return out
}

func tracked(key string) bool {
	for _, k := range models.PreferenceKeys {
		if k == key {
			return true
		}
	}
	return false
}

// KeywordDetector spots preference statements by keyword. Values it emits
// are canonical strings, but the Tracker accepts any free-text value, so
// richer detectors can be swapped in behind the Detector interface.
type KeywordDetector struct{}

// Detect scans the utterance for preference keywords. A later statement
// overrides an earlier one for the same key; the existing map is not
// consulted because restating a preference is how users change it.
func (KeywordDetector) Detect(utterance string, _ models.UserPreferences) models.UserPreferences {
	msg := strings.ToLower(utterance)
	delta := models.UserPreferences{}

	if containsAny(msg, "tone", "formal", "casual") {
		switch {
		case strings.Contains(msg, "formal"):
			delta[models.PrefToneOfVoice] = "formal"
		case strings.Contains(msg, "casual"):
			delta[models.PrefToneOfVoice] = "casual"
		case strings.Contains(msg, "enthusiastic"):
			delta[models.PrefToneOfVoice] = "enthusiastic"
		}
	}

	if containsAny(msg, "format", "bullet", "paragraph") {
		switch {
		case strings.Contains(msg, "bullet"):
			delta[models.PrefResponseFormat] = "bullet points"
		case strings.Contains(msg, "paragraph"):
			delta[models.PrefResponseFormat] = "paragraphs"
		}
	}

	if containsAny(msg, "language", "english", "spanish") {
		switch {
		case strings.Contains(msg, "english"):
			delta[models.PrefLanguage] = "English"
		case strings.Contains(msg, "spanish"):
			delta[models.PrefLanguage] = "Spanish"
		}
	}

	if containsAny(msg, "style", "concise", "detailed") {
		switch {
		case strings.Contains(msg, "concise"):
			delta[models.PrefInteractionStyle] = "concise"
		case strings.Contains(msg, "detailed"):
			delta[models.PrefInteractionStyle] = "detailed"
		}
	}

	if containsAny(msg, "topic", "technology", "sports", "politics") {
		var topics []string
		for _, topic := range []string{"technology", "sports", "politics", "business", "entertainment"} {
			if strings.Contains(msg, topic) {
				topics = append(topics, topic)
			}
		}
		if len(topics) > 0 {
			delta[models.PrefNewsTopics] = strings.Join(topics, ", ")
		}
	}

	return delta
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
