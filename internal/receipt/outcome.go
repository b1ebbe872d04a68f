package receipt

import (
	"fmt"
	"log/slog"
	"time"
)

// Outcome is the result of one pipeline stage. A degraded outcome still
// carries a usable value, the stage's default.
type Outcome[T any] struct {
	Value  T
	Reason error // nil unless degraded
}

// Ok is a stage that produced its value normally
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value}
}

// Degraded is a stage that fell back to value because of reason
func Degraded[T any](value T, reason error) Outcome[T] {
	return Outcome[T]{Value: value, Reason: reason}
}

// IsDegraded reports whether the stage fell back to a default
func (o Outcome[T]) IsDegraded() bool {
	return o.Reason != nil
}

// State is a step of a single pipeline run
type State string

const (
	StateInit              State = "INIT"
	StateTextExtracted     State = "TEXT_EXTRACTED"
	StateShortCircuitEmpty State = "SHORT_CIRCUIT_EMPTY"
	StateEntitiesExtracted State = "ENTITIES_EXTRACTED"
	StateCategorized       State = "CATEGORIZED"
	StateAssembled         State = "ASSEMBLED"
	StateFailed            State = "FAILED"
)

var transitions = map[State][]State{
	StateInit:              {StateTextExtracted, StateFailed},
	StateTextExtracted:     {StateShortCircuitEmpty, StateEntitiesExtracted},
	StateEntitiesExtracted: {StateCategorized},
	StateCategorized:       {StateAssembled},
}

// CanTransition reports whether a run may move from s to next
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no state follows s
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// pipelineRun tracks the state of one ParseReceipt call
type pipelineRun struct {
	state   State
	logger  *slog.Logger
	started time.Time
}

func newPipelineRun(logger *slog.Logger) *pipelineRun {
	return &pipelineRun{state: StateInit, logger: logger, started: time.Now()}
}

// advance moves the run to next. The stages are wired statically, so an
// illegal transition is a programming error.
func (r *pipelineRun) advance(next State) {
	if !r.state.CanTransition(next) {
		panic(fmt.Sprintf("illegal pipeline transition %s -> %s", r.state, next))
	}
	r.logger.Debug("Pipeline state changed", "from", r.state, "to", next)
	r.state = next

	if next.Terminal() {
		requestsTotal.WithLabelValues(string(next)).Inc()
		pipelineDuration.Observe(time.Since(r.started).Seconds())
	}
}
