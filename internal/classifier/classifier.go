package classifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/todochat/todochat/internal/intent"
)

// Generator produces raw model text for a chat message. It exists so
// the fallback pipeline can run against a fake in tests.
type Generator interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// Fallback classifies messages the rule parser could not, by asking a
// generative model for one structured action in JSON. Every failure
// mode degrades to [Unknown]: a broken model call must never break
// the conversation.
type Fallback struct {
	gen    Generator
	logger *slog.Logger
}

func NewFallback(gen Generator, logger *slog.Logger) *Fallback {
	return &Fallback{gen: gen, logger: logger}
}

func (f *Fallback) Classify(ctx context.Context, text string) []intent.Action {
	raw, err := f.gen.Generate(ctx, text)
	if err != nil {
		f.logger.WarnContext(ctx, "fallback classifier call failed", "error", err)
		return []intent.Action{intent.Unknown{}}
	}

	var w wireAction
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		f.logger.WarnContext(ctx, "fallback classifier returned non-JSON", "error", err)
		return []intent.Action{intent.Unknown{}}
	}
	return normalize(w)
}

// stripFences removes markdown code-fence artifacts models like to
// wrap JSON in.
func stripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}
