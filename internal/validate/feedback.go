package validate

// Feedback is the structured outcome of judging one submission. It is
// ephemeral: the session keeps only a summarized history entry.
type Feedback struct {
	IsCorrect        bool
	Feedback         string
	Hint             string
	CorrectedQuery   string
	PerformanceNotes string

	// Evaluated is true when a remote judgement was obtained. The local
	// pre-check short-circuit and transport or parse failures leave it
	// false, and only evaluated submissions count toward progress.
	Evaluated bool
}
