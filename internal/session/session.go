package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/lerda8/data-retrieving-training/internal/progress"
	"github.com/lerda8/data-retrieving-training/internal/question"
)

// State names the position of a session in its lifecycle.
type State string

const (
	StateNoIndustry       State = "no_industry"
	StateAwaitingQuestion State = "awaiting_question"
	StateQuestionReady    State = "question_ready"
	StateSubmitted        State = "submitted"
)

// Policy holds the per-session behavior knobs.
type Policy struct {
	// KeepProgressOnIndustryChange controls whether switching industry
	// preserves the progress record. Most deployments keep it.
	KeepProgressOnIndustryChange bool
}

// DefaultPolicy returns the standard session policy.
func DefaultPolicy() Policy {
	return Policy{KeepProgressOnIndustryChange: true}
}

// Snapshot is a read-only copy of the session state handed to the
// presentation layer for display.
type Snapshot struct {
	ID         uuid.UUID
	State      State
	Industry   string
	Difficulty question.Difficulty
	Question   *question.PracticeQuestion
	Progress   progress.Record
	CreatedAt  time.Time
}
