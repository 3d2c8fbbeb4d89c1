package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/schema"
)

// ErrGeneration reports that the generative service was unreachable or
// returned a response that does not parse, after the permitted retry.
var ErrGeneration = errors.New("question generation failed")

const generatorSystemPrompt = `You are a SQL training assistant. You invent realistic business
questions that a stakeholder would ask, answerable with a single SQL query
against the schema you are given.

Respond with ONLY a JSON object with exactly two keys:
{"question": "<the business question in plain language>", "sql": "<the SQL query that answers it>"}

No explanations, no markdown fences, no extra keys.`

// Generator produces practice questions through the generative-text
// service. Wrap the provider with the retrying resilient configuration;
// the generator itself performs no retries.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a question generator.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate requests one (question, reference solution) pair for the given
// schema under the difficulty constraint. It never returns a partially
// filled question: any malformed response yields ErrGeneration.
func (g *Generator) Generate(ctx context.Context, desc *schema.Descriptor, difficulty Difficulty) (*PracticeQuestion, error) {
	resp, err := g.provider.Complete(ctx, &llm.Request{
		System:      generatorSystemPrompt,
		Prompt:      g.buildPrompt(desc, difficulty),
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	prompt, sql, err := parseGeneration(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return &PracticeQuestion{
		ID:           uuid.New(),
		Industry:     desc.Industry,
		Difficulty:   difficulty,
		Prompt:       prompt,
		ReferenceSQL: sql,
		CreatedAt:    time.Now(),
	}, nil
}

func (g *Generator) buildPrompt(desc *schema.Descriptor, difficulty Difficulty) string {
	var sb strings.Builder

	sb.WriteString(desc.RenderPrompt())
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Difficulty: %s. %s\n\n", difficulty, difficulty.Constraint()))
	sb.WriteString("Generate one business question for this schema and the SQL query that answers it.\n")
	sb.WriteString("Only reference tables and columns that appear in the schema above.\n")

	return sb.String()
}
