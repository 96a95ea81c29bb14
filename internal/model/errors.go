package model

import "strings"

// ValidationError carries every rule violation found in a work report,
// one user-facing message per failing rule.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
