package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
)

const judgeSystemPrompt = `You are a strict SQL reviewer for a training tool. You are given a
database schema, a business question, the reference solution and a learner's
submission. Judge whether the submission correctly answers the question.
Different SQL that produces the same result is correct.

Respond with ONLY a JSON object of this exact shape:
{"is_correct": true|false, "feedback": "<explanation>", "hint": "<how to improve>", "performance_notes": "<efficiency remarks>", "corrected_query": "<fixed SQL, empty if not needed>"}

No markdown fences, no extra keys, no prose outside the object.`

// Validator judges learner submissions. Validation failures are never fatal
// to the session: every path returns a Feedback.
type Validator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewValidator creates a submission validator. The provider must use the
// retry-free resilient configuration: a duplicated judgement would risk a
// duplicated progress record.
func NewValidator(provider llm.Provider, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{provider: provider, logger: logger}
}

// Validate judges a submission against the question and its reference
// solution. The local pre-check short-circuits without any remote call;
// remote transport and parse failures come back as is_correct=false
// feedback with Evaluated left false.
func (v *Validator) Validate(ctx context.Context, submission string, desc *schema.Descriptor, q *question.PracticeQuestion) *Feedback {
	if reason, ok := precheck(submission); !ok {
		return &Feedback{IsCorrect: false, Feedback: reason}
	}

	resp, err := v.provider.Complete(ctx, &llm.Request{
		System:      judgeSystemPrompt,
		Prompt:      v.buildPrompt(submission, desc, q),
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		v.logger.Warn("submission judgement call failed", "error", err)
		return &Feedback{
			IsCorrect: false,
			Feedback:  "The reviewer service is unavailable right now; your query was not judged. Try submitting again.",
		}
	}

	fb, err := parseJudgement(resp.Content)
	if err != nil {
		v.logger.Warn("submission judgement did not parse", "error", err)
		return &Feedback{
			IsCorrect: false,
			Feedback:  "The reviewer returned an unreadable judgement; your query was not judged. Try submitting again.",
		}
	}

	return fb
}

func (v *Validator) buildPrompt(submission string, desc *schema.Descriptor, q *question.PracticeQuestion) string {
	var sb strings.Builder

	sb.WriteString(desc.RenderPrompt())
	sb.WriteString("\nQuestion:\n")
	sb.WriteString(q.Prompt)
	sb.WriteString("\n\nReference solution:\n")
	sb.WriteString(q.ReferenceSQL)
	sb.WriteString("\n\nLearner's submission:\n")
	sb.WriteString(submission)
	sb.WriteString("\n")

	return sb.String()
}

// parseJudgement parses the four-channel judgement object. The contract is
// strict: a response that is not exactly the expected object is rejected
// rather than guessed at.
func parseJudgement(raw string) (*Feedback, error) {
	trimmed := strings.TrimSpace(raw)
	if i := strings.Index(trimmed, "{"); i > 0 {
		trimmed = trimmed[i:]
	}
	if j := strings.LastIndex(trimmed, "}"); j >= 0 {
		trimmed = trimmed[:j+1]
	}

	var fields struct {
		IsCorrect        *bool  `json:"is_correct"`
		FeedbackText     string `json:"feedback"`
		Hint             string `json:"hint"`
		PerformanceNotes string `json:"performance_notes"`
		CorrectedQuery   string `json:"corrected_query"`
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode judgement: %w", err)
	}
	if fields.IsCorrect == nil {
		return nil, fmt.Errorf("judgement missing is_correct")
	}
	if strings.TrimSpace(fields.FeedbackText) == "" {
		return nil, fmt.Errorf("judgement missing feedback")
	}

	return &Feedback{
		IsCorrect:        *fields.IsCorrect,
		Feedback:         fields.FeedbackText,
		Hint:             fields.Hint,
		PerformanceNotes: fields.PerformanceNotes,
		CorrectedQuery:   fields.CorrectedQuery,
		Evaluated:        true,
	}, nil
}
