package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SaadAmawi/VocalFlow/internal/analyzer"
	"github.com/SaadAmawi/VocalFlow/internal/flow"
	"github.com/SaadAmawi/VocalFlow/internal/media"
)

// State identifies where a session is in its lifecycle.
type State string

const (
	StateAwaitingAnswer State = "awaiting_answer"
	StateAnalyzing      State = "analyzing"
	StateSubmitting     State = "submitting"
	StateDone           State = "done"
	StateFailed         State = "failed"
	StateExited         State = "exited"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool { return s == StateDone || s == StateExited }

// Event is emitted on every state transition.
type Event struct {
	State         State  `json:"state"`
	QuestionIndex int    `json:"questionIndex"`
	Warning       string `json:"warning,omitempty"`
}

// Submitter delivers the final payload. Implemented by webhook.Client.
type Submitter interface {
	Submit(endpoint string, payload any) error
}

var (
	// ErrNotAwaiting is returned when an answer arrives in any state
	// other than AwaitingAnswer.
	ErrNotAwaiting = errors.New("session: not awaiting an answer")
	// ErrAnswerInFlight is returned when an answer arrives while the
	// previous one is still being processed.
	ErrAnswerInFlight = errors.New("session: an answer is already being processed")
)

// Orchestrator steps a candidate through a flow's questions one at a time:
// each finished answer clip is analyzed, the result accumulated, and after
// the last question the full result set is submitted to the flow's
// destination endpoint.
type Orchestrator struct {
	flow      *flow.Flow
	analyzer  analyzer.Analyzer
	submitter Submitter
	now       func() time.Time

	interviewID string
	candidateID string

	mu        sync.Mutex
	state     State
	idx       int
	answers   []Answer
	warning   string
	listeners []func(Event)
}

// New creates an orchestrator for one run of the given flow. The flow must
// be valid; candidate and interview IDs are freshly generated.
func New(f *flow.Flow, az analyzer.Analyzer, sub Submitter) (*Orchestrator, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		flow:        f,
		analyzer:    az,
		submitter:   sub,
		now:         time.Now,
		interviewID: uuid.New().String(),
		candidateID: uuid.New().String(),
		state:       StateAwaitingAnswer,
	}, nil
}

// OnTransition registers a listener for state transition events. Listeners
// are called synchronously, in registration order.
func (o *Orchestrator) OnTransition(fn func(Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

func (o *Orchestrator) emitLocked() {
	ev := Event{State: o.state, QuestionIndex: o.idx, Warning: o.warning}
	listeners := make([]func(Event), len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
	o.mu.Lock()
}

// InterviewID returns the session's interview identifier.
func (o *Orchestrator) InterviewID() string { return o.interviewID }

// CandidateID returns the per-session candidate identifier.
func (o *Orchestrator) CandidateID() string { return o.candidateID }

// Flow returns the flow this session runs over. Read-only during a session.
func (o *Orchestrator) Flow() *flow.Flow { return o.flow }

// State returns the current session state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// QuestionIndex returns the index of the question currently in play.
func (o *Orchestrator) QuestionIndex() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.idx
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (o *Orchestrator) CurrentQuestion() (flow.Question, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if (o.state != StateAwaitingAnswer && o.state != StateFailed) || o.idx >= len(o.flow.Questions) {
		return flow.Question{}, false
	}
	return o.flow.Questions[o.idx], true
}

// Answers returns a copy of the answers accumulated so far.
func (o *Orchestrator) Answers() []Answer {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Answer, len(o.answers))
	copy(out, o.answers)
	return out
}

// Warning returns the non-fatal submission warning, if any.
func (o *Orchestrator) Warning() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.warning
}

// SubmitAnswer supplies the finished answer clip for the current question
// and drives the session forward: analyze, accumulate, then either await
// the next question or submit the full result set and finish.
//
// Analysis never fails (the analyzer substitutes its sentinel result), so
// the returned error covers only ordering misuse and the defensive
// boundary around an analyzer that panics.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, clip media.Clip) (analyzer.AnalysisResult, error) {
	o.mu.Lock()
	switch o.state {
	case StateAnalyzing:
		o.mu.Unlock()
		return analyzer.AnalysisResult{}, ErrAnswerInFlight
	case StateAwaitingAnswer, StateFailed:
		// Failed is retryable: the same question may be answered again.
	default:
		o.mu.Unlock()
		return analyzer.AnalysisResult{}, ErrNotAwaiting
	}
	question := o.flow.Questions[o.idx]
	o.state = StateAnalyzing
	o.emitLocked()
	o.mu.Unlock()

	result, panicErr := o.analyzeGuarded(ctx, clip, question.Text)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateExited {
		// Cancelled while analyzing: the result is discarded.
		return analyzer.AnalysisResult{}, ErrNotAwaiting
	}

	if panicErr != nil {
		// Defensive boundary: halt at the current question without
		// appending a partial answer, so the candidate can retry.
		o.state = StateFailed
		o.emitLocked()
		return analyzer.AnalysisResult{}, panicErr
	}

	o.answers = append(o.answers, Answer{QuestionID: question.ID, Analysis: result})

	if o.idx == len(o.flow.Questions)-1 {
		o.state = StateSubmitting
		o.emitLocked()
		o.submitLocked()
		if o.state == StateSubmitting { // not cancelled while the POST ran
			o.state = StateDone
			o.emitLocked()
		}
	} else {
		o.idx++
		o.state = StateAwaitingAnswer
		o.emitLocked()
	}

	return result, nil
}

func (o *Orchestrator) analyzeGuarded(ctx context.Context, clip media.Clip, questionText string) (result analyzer.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis panicked: %v", r)
		}
	}()
	return o.analyzer.Analyze(ctx, clip, questionText), nil
}

// submitLocked builds the payload and performs the single best-effort
// webhook POST. Failure is recorded as a warning and never blocks Done.
func (o *Orchestrator) submitLocked() {
	payload := buildPayload(o.flow, o.answers, o.interviewID, o.candidateID, o.now().UTC())
	endpoint := o.flow.DestinationEndpoint

	o.mu.Unlock()
	err := o.submitter.Submit(endpoint, payload)
	o.mu.Lock()

	if err != nil {
		o.warning = fmt.Sprintf("results could not be delivered: %v", err)
		log.Printf("session %s: %v", o.interviewID, err)
	}
}

// Cancel abandons the session before completion. Accumulated answers are
// discarded and nothing is submitted. An in-flight analysis or submission
// is not aborted; its result is simply discarded when it returns.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Terminal() {
		return
	}
	o.state = StateExited
	o.answers = nil
	o.emitLocked()
}
