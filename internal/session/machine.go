package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lerda8/data-retrieving-training/internal/hint"
	"github.com/lerda8/data-retrieving-training/internal/progress"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
	"github.com/lerda8/data-retrieving-training/internal/validate"
)

var (
	ErrInvalidTransition = errors.New("operation not valid in current state")
	ErrNoQuestion        = errors.New("no current question")
)

// Machine owns the state of one learner session and orchestrates the
// catalog, generator, validator, hint generator and progress tracker behind
// a small operation set. Operations are serialized by a mutex: a second
// Submit issued while one is in flight waits, it never interleaves, so the
// progress record's monotonic invariants hold.
type Machine struct {
	mu sync.Mutex

	id        uuid.UUID
	catalog   *schema.Catalog
	generator *question.Generator
	validator *validate.Validator
	hints     *hint.Generator
	tracker   *progress.Tracker
	policy    Policy
	logger    *slog.Logger
	createdAt time.Time

	state      State
	industry   string
	difficulty question.Difficulty
	current    *question.PracticeQuestion
}

// NewMachine creates a fresh session in the NoIndustry state.
func NewMachine(catalog *schema.Catalog, generator *question.Generator, validator *validate.Validator, hints *hint.Generator, policy Policy, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		id:        uuid.New(),
		catalog:   catalog,
		generator: generator,
		validator: validator,
		hints:     hints,
		tracker:   progress.NewTracker(),
		policy:    policy,
		logger:    logger,
		createdAt: time.Now(),
		state:     StateNoIndustry,
	}
}

// SelectIndustry starts training in an industry. Valid only from
// NoIndustry; difficulty defaults to medium.
func (m *Machine) SelectIndustry(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateNoIndustry {
		return fmt.Errorf("%w: select industry from %s", ErrInvalidTransition, m.state)
	}
	if _, err := m.catalog.Describe(name); err != nil {
		return err
	}

	m.industry = name
	m.difficulty = question.Medium
	m.state = StateAwaitingQuestion
	m.logger.Info("industry selected", "session", m.id, "industry", name)
	return nil
}

// RequestQuestion generates a fresh question for the current industry and
// difficulty. The prior question is cleared up front, so a generation
// failure leaves the session awaiting a question rather than showing a
// stale one.
func (m *Machine) RequestQuestion(ctx context.Context) (*question.PracticeQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateNoIndustry {
		return nil, fmt.Errorf("%w: request question from %s", ErrInvalidTransition, m.state)
	}

	desc, err := m.catalog.Describe(m.industry)
	if err != nil {
		return nil, err
	}

	m.current = nil
	m.state = StateAwaitingQuestion

	q, err := m.generator.Generate(ctx, desc, m.difficulty)
	if err != nil {
		m.logger.Warn("question generation failed", "session", m.id, "error", err)
		return nil, err
	}

	m.current = q
	m.state = StateQuestionReady
	return copyQuestion(q), nil
}

// ChangeDifficulty switches the difficulty tier and clears the current
// question, forcing regeneration under the new constraint.
func (m *Machine) ChangeDifficulty(level question.Difficulty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateNoIndustry {
		return fmt.Errorf("%w: change difficulty from %s", ErrInvalidTransition, m.state)
	}
	if _, err := question.ParseDifficulty(string(level)); err != nil {
		return err
	}

	m.difficulty = level
	m.current = nil
	m.state = StateAwaitingQuestion
	return nil
}

// Submit judges a learner's query against the current question. A remote
// judgement that completes records exactly one attempt; the local
// pre-check short-circuit records nothing.
func (m *Machine) Submit(ctx context.Context, query string) (*validate.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateQuestionReady && m.state != StateSubmitted {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, m.state)
	}
	if m.current == nil {
		return nil, ErrNoQuestion
	}

	desc, err := m.catalog.Describe(m.industry)
	if err != nil {
		return nil, err
	}

	fb := m.validator.Validate(ctx, query, desc, m.current)
	if fb.Evaluated {
		m.tracker.Record(m.current.Prompt, query, fb.IsCorrect)
	}

	m.state = StateSubmitted
	return fb, nil
}

// RequestHint asks for guidance on the current question. It never changes
// state and never fails: at worst the hint is the unavailable message.
func (m *Machine) RequestHint(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateQuestionReady && m.state != StateSubmitted {
		return "", fmt.Errorf("%w: request hint from %s", ErrInvalidTransition, m.state)
	}
	if m.current == nil {
		return "", ErrNoQuestion
	}

	desc, err := m.catalog.Describe(m.industry)
	if err != nil {
		return "", err
	}

	return m.hints.Hint(ctx, desc, m.current), nil
}

// ChangeIndustry switches to another industry, or back to the industry
// picker when name is empty. Valid from any state. Whether progress
// survives the switch is a policy choice.
func (m *Machine) ChangeIndustry(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		if _, err := m.catalog.Describe(name); err != nil {
			return err
		}
	}

	m.current = nil
	m.industry = name
	if name == "" {
		m.state = StateNoIndustry
	} else {
		if m.difficulty == "" {
			m.difficulty = question.Medium
		}
		m.state = StateAwaitingQuestion
	}

	if !m.policy.KeepProgressOnIndustryChange {
		m.tracker.Reset()
	}
	return nil
}

// BookmarkCurrent marks the current question for later review.
func (m *Machine) BookmarkCurrent() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoQuestion
	}
	m.tracker.Bookmark(m.current.ID)
	return nil
}

// Snapshot returns a read-only copy of the session for display.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		ID:         m.id,
		State:      m.state,
		Industry:   m.industry,
		Difficulty: m.difficulty,
		Question:   copyQuestion(m.current),
		Progress:   m.tracker.Snapshot(),
		CreatedAt:  m.createdAt,
	}
}

// Accuracy returns the session's running accuracy.
func (m *Machine) Accuracy() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Accuracy()
}

func copyQuestion(q *question.PracticeQuestion) *question.PracticeQuestion {
	if q == nil {
		return nil
	}
	out := *q
	return &out
}
