package question

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds the join and aggregation complexity a generated
// question may require.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Constraint returns the complexity constraint text embedded in the
// generation prompt for this difficulty.
func (d Difficulty) Constraint() string {
	switch d {
	case Easy:
		return "The solution must use a single table with no joins, only SELECT and WHERE."
	case Medium:
		return "The solution may use at most two joins; aggregations are limited to COUNT, SUM, MIN and MAX."
	case Hard:
		return "The solution may use any number of joins, subqueries and advanced aggregation."
	default:
		return ""
	}
}

// PracticeQuestion is one generated business question with its reference
// solution. A session owns at most one at a time and replaces it wholesale
// on every new-question request.
type PracticeQuestion struct {
	ID           uuid.UUID
	Industry     string
	Difficulty   Difficulty
	Prompt       string
	ReferenceSQL string
	CreatedAt    time.Time
}
