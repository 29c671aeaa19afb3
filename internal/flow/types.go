package flow

import (
	"github.com/google/uuid"
)

// Question is a single scripted interview question. Immutable once added to
// a flow, except for removal.
type Question struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Text  string `json:"text"`
	// PromptClipRef points at the author's pre-recorded prompt clip on disk.
	// Empty when the question is text-only.
	PromptClipRef string `json:"promptClipRef,omitempty"`
}

// Flow is an ordered, named set of interview questions plus an optional
// result-delivery endpoint.
type Flow struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	DestinationEndpoint string     `json:"destinationEndpoint,omitempty"`
	Questions           []Question `json:"questions"`
}

// New creates an empty flow with a fresh ID.
func New(title string) *Flow {
	return &Flow{
		ID:    uuid.New().String(),
		Title: title,
	}
}

// AddQuestion appends a question to the flow and returns it. Order is
// assigned from the list length at creation time and is never renumbered;
// list position is authoritative for display and submission.
func (f *Flow) AddQuestion(text, promptClipRef string) Question {
	q := Question{
		ID:            uuid.New().String(),
		Order:         len(f.Questions) + 1,
		Text:          text,
		PromptClipRef: promptClipRef,
	}
	f.Questions = append(f.Questions, q)
	return q
}

// EnsureIDs fills in a fresh ID for the flow and for any question lacking
// one. Flows arriving over the wire may omit them; answers join against
// question IDs, so every question must have one before the flow is stored.
func (f *Flow) EnsureIDs() {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	for i := range f.Questions {
		if f.Questions[i].ID == "" {
			f.Questions[i].ID = uuid.New().String()
		}
	}
}

// RemoveQuestion deletes the question with the given ID. Remaining questions
// keep their stored Order values.
func (f *Flow) RemoveQuestion(id string) bool {
	for i, q := range f.Questions {
		if q.ID == id {
			f.Questions = append(f.Questions[:i], f.Questions[i+1:]...)
			return true
		}
	}
	return false
}
