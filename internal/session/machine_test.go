package session

import (
	"context"
	"errors"
	"testing"

	"github.com/lerda8/data-retrieving-training/internal/hint"
	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
	"github.com/lerda8/data-retrieving-training/internal/validate"
)

// queueProvider returns its canned responses in order, then keeps
// repeating the last one.
type queueProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *queueProvider) Name() string { return "stub" }

func (p *queueProvider) Complete(_ context.Context, _ *llm.Request) (*llm.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	i := p.calls - 1
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return &llm.Response{Content: p.responses[i], FinishReason: "stop"}, nil
}

const (
	generationJSON = `{"question": "How many shipments has each carrier moved?", "sql": "SELECT c.name, COUNT(*) FROM shipments s JOIN carriers c ON s.carrier_id = c.id GROUP BY c.name"}`
	correctJSON    = `{"is_correct": true, "feedback": "Correct.", "hint": "", "performance_notes": "", "corrected_query": ""}`
	incorrectJSON  = `{"is_correct": false, "feedback": "Wrong table.", "hint": "Start from shipments.", "performance_notes": "", "corrected_query": ""}`
)

func newTestMachine(t *testing.T, gen, val llm.Provider) *Machine {
	t.Helper()
	if gen == nil {
		gen = &queueProvider{responses: []string{generationJSON}}
	}
	if val == nil {
		val = &queueProvider{responses: []string{correctJSON}}
	}
	return NewMachine(
		schema.BuiltIn(),
		question.NewGenerator(gen),
		validate.NewValidator(val, nil),
		hint.NewGenerator(val, nil),
		DefaultPolicy(),
		nil,
	)
}

func TestMachine_FullRound(t *testing.T) {
	m := newTestMachine(t, nil, &queueProvider{responses: []string{correctJSON}})
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatalf("SelectIndustry() error = %v", err)
	}
	if st := m.Snapshot(); st.State != StateAwaitingQuestion || st.Difficulty != question.Medium {
		t.Fatalf("after select: state=%s difficulty=%s", st.State, st.Difficulty)
	}

	if err := m.ChangeDifficulty(question.Easy); err != nil {
		t.Fatalf("ChangeDifficulty() error = %v", err)
	}

	q, err := m.RequestQuestion(ctx)
	if err != nil {
		t.Fatalf("RequestQuestion() error = %v", err)
	}
	if q.Prompt == "" || q.ReferenceSQL == "" {
		t.Fatalf("incomplete question: %+v", q)
	}
	if st := m.Snapshot(); st.State != StateQuestionReady {
		t.Fatalf("after question: state = %s", st.State)
	}

	fb, err := m.Submit(ctx, "SELECT c.name, COUNT(*) FROM shipments s JOIN carriers c ON s.carrier_id = c.id GROUP BY c.name")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !fb.IsCorrect || !fb.Evaluated {
		t.Fatalf("feedback = %+v", fb)
	}

	st := m.Snapshot()
	if st.State != StateSubmitted {
		t.Errorf("after submit: state = %s", st.State)
	}
	if st.Progress.TotalAttempts != 1 || st.Progress.CorrectCount != 1 {
		t.Errorf("progress = %d/%d, want 1/1", st.Progress.CorrectCount, st.Progress.TotalAttempts)
	}
	if len(st.Progress.History) != 1 || !st.Progress.History[0].Correct {
		t.Errorf("history = %+v", st.Progress.History)
	}
	if got := m.Accuracy(); got != 1.0 {
		t.Errorf("Accuracy() = %v, want 1", got)
	}
}

func TestMachine_EmptySubmissionNotRecorded(t *testing.T) {
	judge := &queueProvider{responses: []string{correctJSON}}
	m := newTestMachine(t, nil, judge)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}

	fb, err := m.Submit(ctx, "   ")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if fb.Feedback != "Query cannot be empty" {
		t.Errorf("Feedback = %q", fb.Feedback)
	}
	if fb.Evaluated {
		t.Error("pre-check rejection should not be evaluated")
	}
	if judge.calls != 0 {
		t.Errorf("judge called %d times, want 0", judge.calls)
	}

	st := m.Snapshot()
	if st.Progress.TotalAttempts != 0 {
		t.Errorf("progress recorded for a pre-check rejection: %+v", st.Progress)
	}
	if st.State != StateSubmitted {
		t.Errorf("state = %s, want submitted", st.State)
	}
}

func TestMachine_ResubmitAfterFeedback(t *testing.T) {
	judge := &queueProvider{responses: []string{incorrectJSON, correctJSON}}
	m := newTestMachine(t, nil, judge)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}

	fb, err := m.Submit(ctx, "SELECT name FROM carriers")
	if err != nil {
		t.Fatal(err)
	}
	if fb.IsCorrect {
		t.Fatal("first submission should be judged incorrect")
	}

	fb, err = m.Submit(ctx, "SELECT c.name, COUNT(*) FROM shipments s JOIN carriers c ON s.carrier_id = c.id GROUP BY c.name")
	if err != nil {
		t.Fatal(err)
	}
	if !fb.IsCorrect {
		t.Fatal("second submission should be judged correct")
	}

	st := m.Snapshot()
	if st.Progress.TotalAttempts != 2 || st.Progress.CorrectCount != 1 {
		t.Errorf("progress = %d/%d, want 1/2", st.Progress.CorrectCount, st.Progress.TotalAttempts)
	}
}

func TestMachine_ChangeDifficultyClearsQuestion(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}

	if err := m.ChangeDifficulty(question.Hard); err != nil {
		t.Fatalf("ChangeDifficulty() error = %v", err)
	}

	st := m.Snapshot()
	if st.State != StateAwaitingQuestion {
		t.Errorf("state = %s, want awaiting_question", st.State)
	}
	if st.Question != nil {
		t.Error("changing difficulty should clear the current question")
	}
	if st.Difficulty != question.Hard {
		t.Errorf("difficulty = %s, want hard", st.Difficulty)
	}
}

func TestMachine_ChangeDifficultyRejectsUnknownLevel(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeDifficulty("brutal"); err == nil {
		t.Fatal("ChangeDifficulty(brutal) should fail")
	}
	if st := m.Snapshot(); st.Difficulty != question.Medium {
		t.Errorf("difficulty changed on rejected level: %s", st.Difficulty)
	}
}

func TestMachine_GenerationFailureLeavesAwaiting(t *testing.T) {
	gen := &queueProvider{err: errors.New("status 503")}
	m := newTestMachine(t, gen, nil)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.RequestQuestion(ctx); err == nil {
		t.Fatal("RequestQuestion() should surface the generation failure")
	}

	st := m.Snapshot()
	if st.State != StateAwaitingQuestion {
		t.Errorf("state = %s, want awaiting_question", st.State)
	}
	if st.Question != nil {
		t.Error("a failed generation must not leave a stale question")
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	ctx := context.Background()

	if _, err := m.RequestQuestion(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RequestQuestion before industry: error = %v", err)
	}
	if err := m.ChangeDifficulty(question.Hard); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ChangeDifficulty before industry: error = %v", err)
	}
	if _, err := m.Submit(ctx, "SELECT 1 FROM t"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit before industry: error = %v", err)
	}
	if _, err := m.RequestHint(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RequestHint before industry: error = %v", err)
	}

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if err := m.SelectIndustry("retail"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second SelectIndustry: error = %v", err)
	}
	if _, err := m.Submit(ctx, "SELECT 1 FROM t"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit without question: error = %v", err)
	}
}

func TestMachine_SelectUnknownIndustry(t *testing.T) {
	m := newTestMachine(t, nil, nil)

	err := m.SelectIndustry("plumbing")
	if !errors.Is(err, schema.ErrUnknownIndustry) {
		t.Errorf("error = %v, want ErrUnknownIndustry", err)
	}
	if st := m.Snapshot(); st.State != StateNoIndustry {
		t.Errorf("state = %s, want no_industry", st.State)
	}
}

func TestMachine_HintDoesNotChangeState(t *testing.T) {
	hints := &queueProvider{responses: []string{generationJSON, "Think about joining shipments to carriers."}}
	m := newTestMachine(t, hints, hints)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}

	text, err := m.RequestHint(ctx)
	if err != nil {
		t.Fatalf("RequestHint() error = %v", err)
	}
	if text == "" {
		t.Error("hint should not be empty")
	}

	st := m.Snapshot()
	if st.State != StateQuestionReady {
		t.Errorf("state = %s, requesting a hint must not change state", st.State)
	}
	if st.Question == nil {
		t.Error("current question must survive a hint request")
	}
}

func TestMachine_ChangeIndustryKeepsProgressByDefault(t *testing.T) {
	m := newTestMachine(t, nil, &queueProvider{responses: []string{correctJSON}})
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(ctx, "SELECT name FROM carriers"); err != nil {
		t.Fatal(err)
	}

	if err := m.ChangeIndustry("healthcare"); err != nil {
		t.Fatalf("ChangeIndustry() error = %v", err)
	}

	st := m.Snapshot()
	if st.Industry != "healthcare" {
		t.Errorf("industry = %q", st.Industry)
	}
	if st.State != StateAwaitingQuestion {
		t.Errorf("state = %s, want awaiting_question", st.State)
	}
	if st.Question != nil {
		t.Error("industry change should clear the current question")
	}
	if st.Progress.TotalAttempts != 1 {
		t.Errorf("progress lost on industry change: %+v", st.Progress)
	}
}

func TestMachine_ChangeIndustryResetPolicy(t *testing.T) {
	m := NewMachine(
		schema.BuiltIn(),
		question.NewGenerator(&queueProvider{responses: []string{generationJSON}}),
		validate.NewValidator(&queueProvider{responses: []string{correctJSON}}, nil),
		hint.NewGenerator(&queueProvider{responses: []string{"hint"}}, nil),
		Policy{KeepProgressOnIndustryChange: false},
		nil,
	)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(ctx, "SELECT name FROM carriers"); err != nil {
		t.Fatal(err)
	}

	if err := m.ChangeIndustry("finance"); err != nil {
		t.Fatal(err)
	}
	if st := m.Snapshot(); st.Progress.TotalAttempts != 0 {
		t.Errorf("progress should reset under the reset policy: %+v", st.Progress)
	}
}

func TestMachine_ChangeIndustryToEmptyReturnsToPicker(t *testing.T) {
	m := newTestMachine(t, nil, nil)

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeIndustry(""); err != nil {
		t.Fatalf("ChangeIndustry(\"\") error = %v", err)
	}

	st := m.Snapshot()
	if st.State != StateNoIndustry {
		t.Errorf("state = %s, want no_industry", st.State)
	}
	if st.Industry != "" {
		t.Errorf("industry = %q, want empty", st.Industry)
	}
}

func TestMachine_BookmarkCurrent(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	ctx := context.Background()

	if err := m.BookmarkCurrent(); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("bookmark without question: error = %v", err)
	}

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	q, err := m.RequestQuestion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.BookmarkCurrent(); err != nil {
		t.Fatalf("BookmarkCurrent() error = %v", err)
	}

	st := m.Snapshot()
	if !st.Progress.Bookmarks[q.ID] {
		t.Error("bookmark not recorded for the current question")
	}
}

func TestMachine_SnapshotQuestionIsACopy(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	ctx := context.Background()

	if err := m.SelectIndustry("logistics"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RequestQuestion(ctx); err != nil {
		t.Fatal(err)
	}

	snap := m.Snapshot()
	snap.Question.Prompt = "mutated"

	if got := m.Snapshot().Question.Prompt; got == "mutated" {
		t.Error("mutating a snapshot question leaked into the session")
	}
}
