package validate

import (
	"regexp"
	"strings"
)

var (
	selectRe = regexp.MustCompile(`(?i)\bselect\b`)
	fromRe   = regexp.MustCompile(`(?i)\bfrom\b`)
)

// precheck runs the local syntax gate. A submission that fails it never
// reaches the generative service and never counts as an attempt.
func precheck(submission string) (reason string, ok bool) {
	if strings.TrimSpace(submission) == "" {
		return "Query cannot be empty", false
	}
	if !selectRe.MatchString(submission) {
		return "The query is missing a SELECT clause; only SELECT queries are practiced here.", false
	}
	if !fromRe.MatchString(submission) {
		return "The query is missing a FROM clause; specify which table to read from.", false
	}
	return "", true
}
