// Package responder renders a persona's prompt over the running
// conversation and asks the language-model backend for the next turn.
package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"terrytube/pkg/convo"
	"terrytube/pkg/errorsx"
	"terrytube/pkg/llm"
	"terrytube/pkg/logging"
	"terrytube/pkg/personality"
)

const contextPlaceholder = "{context}"

// MaxQuestions is the number of questions a persona asks before the beer is
// dispensed. The bound is advisory: it is pushed into the prompt, not
// enforced by truncating generation.
const MaxQuestions = 3

// Generator wraps an llm.Adapter with prompt rendering. It holds no mutable
// state and is safe to call repeatedly with the same arguments.
type Generator struct {
	adapter llm.Adapter
	timeout time.Duration
	logger  *slog.Logger
}

func NewGenerator(adapter llm.Adapter, timeout time.Duration, base *slog.Logger) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if base == nil {
		base = slog.Default()
	}
	return &Generator{
		adapter: adapter,
		timeout: timeout,
		logger:  logging.NewComponentLogger(base, "responder"),
	}
}

// Generate produces the next assistant turn for the given persona and
// history. questionCount is the 1-based number of the question being
// produced; it is embedded as contextual metadata so the model can keep its
// three-question contract. Failures come back with reason llm_unavailable;
// the caller owns recovery.
func (g *Generator) Generate(ctx context.Context, p personality.Personality, history []convo.Turn, questionCount int) (string, error) {
	prompt := RenderPrompt(p, history, questionCount)

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.adapter.Generate(cctx, llm.Request{Prompt: prompt})
	if err != nil {
		g.logger.Error("generation failed",
			slog.String("adapter", g.adapter.Name()),
			slog.Duration("elapsed", time.Since(started)),
			slog.String("error", err.Error()))
		return "", errorsx.Wrap(err, errorsx.ReasonLLMUnavailable)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errorsx.New("model returned an empty response", errorsx.ReasonLLMUnavailable)
	}

	g.logger.Info("generation complete",
		slog.String("adapter", g.adapter.Name()),
		slog.Int("question", questionCount),
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("total_tokens", resp.Usage.TotalTokens))
	return text, nil
}

// Probe checks that the backend is reachable at startup. A kiosk without a
// working model is a fatal misconfiguration, surfaced once, not per turn.
func (g *Generator) Probe(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	_, err := g.adapter.Generate(cctx, llm.Request{Prompt: "Test message"})
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("llm backend %s unavailable: %w", g.adapter.Name(), err), errorsx.ReasonLLMUnavailable)
	}
	return nil
}

// RenderPrompt substitutes the conversation context into the persona
// template and appends the question-number metadata.
func RenderPrompt(p personality.Personality, history []convo.Turn, questionCount int) string {
	var b strings.Builder
	b.WriteString(convo.RenderHistory(history))
	fmt.Fprintf(&b, "\n\nCURRENT QUESTION NUMBER: %d (out of %d maximum)", questionCount, MaxQuestions)
	if questionCount >= MaxQuestions {
		b.WriteString("\nYou've already asked 3 questions.")
	}
	return strings.Replace(p.PromptTemplate, contextPlaceholder, b.String(), 1)
}
