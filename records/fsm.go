package records

// StateMachine is a value that advances through a fixed set of states via
// discrete, self-contained steps until it reaches a halting state.
// Transition consumes the current state and produces the next one; once
// Halted reports true, further Transitions return the state unchanged.
type StateMachine[S any] interface {
	Transition() S
	Halted() bool
}

// Run steps s until it halts and returns the terminal state.
func Run[S StateMachine[S]](s S) S {
	for !s.Halted() {
		s = s.Transition()
	}
	return s
}
