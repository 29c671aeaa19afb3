package flow

import (
	"fmt"
	"strings"
)

// ValidationError describes why a flow was rejected at save time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid flow: %s %s", e.Field, e.Reason)
}

// Validate checks the flow invariants: non-empty title, at least one
// question, and a destination endpoint that is either empty or an absolute
// http(s) URL.
func (f *Flow) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(f.Questions) == 0 {
		return &ValidationError{Field: "questions", Reason: "must contain at least one question"}
	}
	seen := make(map[string]bool, len(f.Questions))
	for _, q := range f.Questions {
		if q.ID != "" && seen[q.ID] {
			return &ValidationError{Field: "questions", Reason: fmt.Sprintf("duplicate question id %q", q.ID)}
		}
		seen[q.ID] = true
	}
	if f.DestinationEndpoint != "" &&
		!strings.HasPrefix(f.DestinationEndpoint, "http://") &&
		!strings.HasPrefix(f.DestinationEndpoint, "https://") {
		return &ValidationError{Field: "destinationEndpoint", Reason: "must begin with http:// or https://"}
	}
	return nil
}
