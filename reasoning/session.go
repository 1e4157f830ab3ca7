package reasoning

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"

	"thinkchain/config"
	"thinkchain/model"
)

// State is the phase of a Session.
type State int

const (
	StateInit State = iota
	StateThinking
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateThinking:
		return "thinking"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a full-replace view of everything a session has accumulated.
// TotalThinkingTime is only set on the Done snapshot.
type Snapshot struct {
	Steps             []StepRecord
	Done              bool
	TotalThinkingTime time.Duration
}

// Result summarizes a session.
type Result struct {
	SessionID         string          `json:"session_id"`
	Query             string          `json:"query"`
	FinalAnswer       string          `json:"final_answer"`
	Steps             []StepRecord    `json:"steps"`
	StepCount         int             `json:"step_count"`
	CallDurations     []time.Duration `json:"call_durations"`
	TotalThinkingTime time.Duration   `json:"total_thinking_time"`
	StepLimitReached  bool            `json:"step_limit_reached,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithMaxSteps caps the number of reasoning steps before the final answer is
// forced. Zero disables the cap.
func WithMaxSteps(n int) Option {
	return func(s *Session) { s.maxSteps = n }
}

// WithClock overrides the time source used to measure model calls.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session runs one query through the reasoning protocol. It is driven by a
// single goroutine and owns its conversation exclusively.
type Session struct {
	id       string
	query    string
	gateway  *Gateway
	maxSteps int
	now      func() time.Time

	state         State
	started       bool
	conversation  []model.Message
	stepCount     int
	steps         []StepRecord
	callDurations []time.Duration
	totalTime     time.Duration
	finalAnswer   string
	answered      bool
	limitReached  bool
}

// NewSession prepares a session for query. Nothing is sent until Run is iterated.
func NewSession(gw *Gateway, query string, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		query:   query,
		gateway: gw,
		now:     time.Now,
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

// Conversation returns a copy of the conversation so far.
func (s *Session) Conversation() []model.Message {
	return slices.Clone(s.conversation)
}

// Run returns the session's snapshot sequence: one snapshot after every
// thinking batch, then a Done snapshot carrying the total thinking time.
//
// The sequence is single-pass. Iterating it a second time yields nothing.
// Stopping early abandons the session; no cleanup is needed.
func (s *Session) Run(ctx context.Context) iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		if s.started {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Session %s] Run iterated again, ignoring", s.id)
			}
			return
		}
		s.started = true

		s.conversation = SeedConversation(s.query)
		s.state = StateThinking
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session %s] Started (max steps: %d)", s.id, s.maxSteps)
		}

		for s.state == StateThinking {
			s.think(ctx)
			if !yield(s.snapshot(false)) {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Session %s] Abandoned after %d steps", s.id, s.stepCount)
				}
				return
			}
			if s.answered || s.limitReached {
				s.state = StateFinalizing
			}
		}

		s.finalize(ctx)
		s.state = StateDone
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session %s] Done: %d steps, %d calls, %v thinking",
				s.id, s.stepCount, len(s.callDurations), s.totalTime)
		}
		yield(s.snapshot(true))
	}
}

// think runs one intermediate call and accepts its steps up to the first
// terminal one, or until the step ceiling is hit.
func (s *Session) think(ctx context.Context) {
	batch, elapsed := s.call(ctx, PurposeIntermediate)

	for _, step := range batch {
		s.accept(step, elapsed)
		if step.Terminal() {
			s.finalAnswer = step.Content
			s.answered = true
			return
		}
		if s.maxSteps > 0 && s.stepCount >= s.maxSteps {
			s.limitReached = true
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Session %s] Step limit %d reached, forcing final answer", s.id, s.maxSteps)
			}
			return
		}
	}
}

// finalize asks for the complete answer. Steps before the first terminal one
// are still recorded; the terminal step's content replaces any tentative answer.
func (s *Session) finalize(ctx context.Context) {
	s.conversation = append(s.conversation, model.NewMessage(model.RoleUser, FinalAnswerRequest))

	batch, elapsed := s.call(ctx, PurposeFinal)
	for _, step := range batch {
		if step.Terminal() {
			s.finalAnswer = step.Content
			break
		}
		s.accept(step, elapsed)
	}

	s.steps = append(s.steps, StepRecord{
		Label:    FinalAnswerLabel,
		Content:  s.finalAnswer,
		Duration: elapsed,
	})
}

func (s *Session) call(ctx context.Context, purpose Purpose) (Batch, time.Duration) {
	start := s.now()
	batch := s.gateway.Steps(ctx, s.conversation, purpose)
	elapsed := s.now().Sub(start)

	s.callDurations = append(s.callDurations, elapsed)
	s.totalTime += elapsed
	return batch, elapsed
}

func (s *Session) accept(step Step, elapsed time.Duration) {
	s.stepCount++
	s.steps = append(s.steps, StepRecord{
		Label:    fmt.Sprintf("Step %d: %s", s.stepCount, step.Title),
		Content:  step.Content,
		Duration: elapsed,
	})
	s.conversation = append(s.conversation, model.NewMessage(model.RoleAssistant, Encode(step)))
}

func (s *Session) snapshot(done bool) Snapshot {
	snap := Snapshot{
		Steps: slices.Clone(s.steps),
		Done:  done,
	}
	if done {
		snap.TotalThinkingTime = s.totalTime
	}
	return snap
}

// Result reports what the session has accumulated so far. After the Done
// snapshot it is the complete outcome.
func (s *Session) Result() Result {
	return Result{
		SessionID:         s.id,
		Query:             s.query,
		FinalAnswer:       s.finalAnswer,
		Steps:             slices.Clone(s.steps),
		StepCount:         s.stepCount,
		CallDurations:     slices.Clone(s.callDurations),
		TotalThinkingTime: s.totalTime,
		StepLimitReached:  s.limitReached,
	}
}

// Reason runs a session to completion and returns its result.
func Reason(ctx context.Context, gw *Gateway, query string, opts ...Option) Result {
	s := NewSession(gw, query, opts...)
	for range s.Run(ctx) {
	}
	return s.Result()
}
