package progress

import (
	"time"

	"github.com/google/uuid"
)

// maxHistory bounds the attempt history kept per session, matching the way
// the learner-facing display only ever shows recent work.
const maxHistory = 100

// Attempt is one summarized history entry.
type Attempt struct {
	Timestamp    time.Time
	QuestionText string
	Submission   string
	Correct      bool
}

// Record is the per-session progress state. All mutation goes through the
// Tracker; history is append-only for the session's lifetime.
type Record struct {
	TotalAttempts int
	CorrectCount  int
	History       []Attempt
	Bookmarks     map[uuid.UUID]bool
}

// Tracker accumulates attempt and correctness counters for one session.
type Tracker struct {
	record Record
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{record: Record{Bookmarks: make(map[uuid.UUID]bool)}}
}

// Record registers one evaluated attempt: it increments the attempt
// counter, conditionally the correct counter, and appends one history
// entry. The counters never move independently, so
// 0 <= CorrectCount <= TotalAttempts holds after every call.
func (t *Tracker) Record(questionText, submission string, correct bool) {
	t.record.TotalAttempts++
	if correct {
		t.record.CorrectCount++
	}
	t.record.History = append(t.record.History, Attempt{
		Timestamp:    time.Now(),
		QuestionText: questionText,
		Submission:   submission,
		Correct:      correct,
	})
	if len(t.record.History) > maxHistory {
		t.record.History = t.record.History[len(t.record.History)-maxHistory:]
	}
}

// Bookmark marks a question for later review.
func (t *Tracker) Bookmark(questionID uuid.UUID) {
	t.record.Bookmarks[questionID] = true
}

// Accuracy returns the fraction of evaluated attempts judged correct, or 0
// before any attempt.
func (t *Tracker) Accuracy() float64 {
	if t.record.TotalAttempts == 0 {
		return 0
	}
	return float64(t.record.CorrectCount) / float64(t.record.TotalAttempts)
}

// Snapshot returns a copy of the progress record for display.
func (t *Tracker) Snapshot() Record {
	out := t.record
	out.History = make([]Attempt, len(t.record.History))
	copy(out.History, t.record.History)
	out.Bookmarks = make(map[uuid.UUID]bool, len(t.record.Bookmarks))
	for id := range t.record.Bookmarks {
		out.Bookmarks[id] = true
	}
	return out
}

// Reset clears all counters, history and bookmarks. Used only when the
// industry-change policy asks for a fresh start.
func (t *Tracker) Reset() {
	t.record = Record{Bookmarks: make(map[uuid.UUID]bool)}
}
