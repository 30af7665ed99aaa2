// Package llm extracts an intent from free-form text with a language model.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"aura/internal/intent"
)

const (
	// FallbackText is answered when the model output cannot be used.
	FallbackText = "I'm here to help! What would you like to do?"

	clockLayout = "03:04 PM"
	dateLayout  = "Monday, January 02, 2006"
)

// Completer sends a prompt to a model and returns its raw answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Extractor turns text into an intent. It never fails: any model or parse
// error yields the fallback intent.
type Extractor struct {
	completer Completer
	logger    *zap.Logger
}

// NewExtractor creates an Extractor over the given model client.
func NewExtractor(c Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: c, logger: logger}
}

// Fallback returns the intent used when the model gives nothing usable.
func Fallback() *intent.Intent {
	return &intent.Intent{Intent: intent.Respond, Text: FallbackText}
}

// Extract asks the model for an intent, giving it the current time and date.
func (e *Extractor) Extract(ctx context.Context, text string, now time.Time) *intent.Intent {
	if e == nil || e.completer == nil {
		return Fallback()
	}

	start := time.Now()
	out, err := e.completer.Complete(ctx, BuildPrompt(text, now))
	if err != nil {
		e.logger.Warn("LLM request failed",
			zap.String("provider", e.completer.Name()),
			zap.Error(err))
		return Fallback()
	}

	in, err := Parse(out)
	if err != nil {
		e.logger.Warn("Failed to parse intent",
			zap.String("provider", e.completer.Name()),
			zap.String("raw", out),
			zap.Error(err))
		return Fallback()
	}

	e.logger.Debug("LLM intent",
		zap.String("provider", e.completer.Name()),
		zap.String("intent", in.Intent),
		zap.Duration("elapsed", time.Since(start)))
	return in
}

var objectRe = regexp.MustCompile(`\{[^{}]*\}`)

// Parse takes the first flat JSON object from the model output.
func Parse(out string) (*intent.Intent, error) {
	raw := objectRe.FindString(out)
	if raw == "" {
		return nil, fmt.Errorf("no json object in output")
	}

	var in intent.Intent
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	if in.Intent == "" {
		return nil, fmt.Errorf("intent field is empty")
	}
	return &in, nil
}

// BuildPrompt renders the instruction prompt for the given command.
func BuildPrompt(text string, now time.Time) string {
	var b strings.Builder

	b.WriteString(`You are "Aura", a friendly AI voice assistant.` + "\n\n")
	fmt.Fprintf(&b, "CONTEXT: Today is %s | Current time is %s | Use this for time/date. NEVER make up times.\n\n",
		now.Format(dateLayout), now.Format(clockLayout))
	b.WriteString(promptRules)
	fmt.Fprintf(&b, "User: %s\n\nJSON:\n", strings.TrimSpace(text))

	return b.String()
}

const promptRules = `RULES:
- Output ONLY valid JSON. No other text.
- Use ONE intent:
  * "time": For time/date questions.
  * "open_app": To open websites/apps. Include "target" (lowercase).
  * "search": To play/search content. Include "query".
  * "respond": For everything else. Include warm "text" (max 15 words).

CRITICAL:
- For time/date: ALWAYS use "time" intent.
- For weather: Use "respond" with "I don't have live weather access yet."
- Keep responses short for voice.

EXAMPLES:
User: what time is it
{"intent":"time"}

User: open netflix
{"intent":"open_app","target":"netflix"}

User: play bad guy
{"intent":"search","query":"bad guy"}

User: how are you
{"intent":"respond","text":"Feeling great! Ready to help"}

User: weather
{"intent":"respond","text":"I don't have live weather access yet."}

`
