package hint

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
)

// Unavailable is returned whenever a hint cannot be produced. Hints are
// best-effort and never fail the session.
const Unavailable = "Hint unavailable right now. Take another look at the schema and try again."

const hintSystemPrompt = `You are a SQL tutor. The learner is stuck on a practice question.
Give ONE short hint that points them toward the solution: name the tables or
the kind of clause to think about.

Do NOT write a complete query. Do NOT reveal the reference solution.
Two or three sentences at most.`

// Generator produces partial hints for the current question.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewGenerator creates a hint generator.
func NewGenerator(provider llm.Provider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, logger: logger}
}

// Hint requests guidance toward the solution without disclosing the
// reference SQL. Any failure returns the Unavailable message.
func (g *Generator) Hint(ctx context.Context, desc *schema.Descriptor, q *question.PracticeQuestion) string {
	var sb strings.Builder
	sb.WriteString(desc.RenderPrompt())
	sb.WriteString("\nQuestion:\n")
	sb.WriteString(q.Prompt)
	sb.WriteString("\n\nThe learner has not solved it yet. Give one partial hint.\n")

	resp, err := g.provider.Complete(ctx, &llm.Request{
		System:      hintSystemPrompt,
		Prompt:      sb.String(),
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.Warn("hint generation failed", "error", err)
		return Unavailable
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" || leaksSolution(text, q.ReferenceSQL) {
		return Unavailable
	}
	return text
}

// leaksSolution reports whether the hint quotes the reference solution
// verbatim, ignoring whitespace differences.
func leaksSolution(hint, referenceSQL string) bool {
	ref := strings.ToLower(strings.Join(strings.Fields(referenceSQL), " "))
	if ref == "" {
		return false
	}
	got := strings.ToLower(strings.Join(strings.Fields(hint), " "))
	return strings.Contains(got, ref)
}
