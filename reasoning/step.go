package reasoning

import "time"

// NextAction is the continue/stop signal carried by every reasoning step.
type NextAction string

const (
	ActionContinue    NextAction = "continue"
	ActionFinalAnswer NextAction = "final_answer"
)

// Valid reports whether a is one of the recognized protocol values.
func (a NextAction) Valid() bool {
	return a == ActionContinue || a == ActionFinalAnswer
}

// ErrorTitle is the title of synthetic steps that stand in for failed calls.
const ErrorTitle = "Error"

// FinalAnswerLabel labels the closing record of every session.
const FinalAnswerLabel = "Final Answer"

// Step is one titled unit of model-generated reasoning.
type Step struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	NextAction NextAction `json:"next_action,omitempty"`
}

// Terminal reports whether the step ends the current phase. Error steps
// produced for the final call carry no next action and are terminal too.
func (s Step) Terminal() bool {
	return s.NextAction != ActionContinue
}

// Batch is the ordered, non-empty set of steps returned by one model call.
type Batch []Step

// StepRecord is one rendered entry of a session: its label, its content and
// the elapsed time of the model call that produced it.
type StepRecord struct {
	Label    string        `json:"label"`
	Content  string        `json:"content"`
	Duration time.Duration `json:"duration"`
}
