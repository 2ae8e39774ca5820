package journey

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnknownTargetState     = errors.New("transition table references an unknown state")
)

// InvalidTransitionError describes a rejected transition. Action is empty
// when the check was made against a target state.
type InvalidTransitionError struct {
	From   State
	Action Action
	To     State
}

func (e *InvalidTransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: no edge %s from %s", ErrInvalidStateTransition, e.Action, e.From)
	}
	return fmt.Sprintf("%s: %s is not reachable from %s", ErrInvalidStateTransition, e.To, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// StateMachine is an immutable transition table. Unknown (state, action)
// pairs are rejected.
type StateMachine struct {
	table map[State]edges
}

// NewStateMachine copies table and checks that every target state has a row
// of its own, so a typo in a target cannot strand a session.
func NewStateMachine(table map[State]map[Action]State) (*StateMachine, error) {
	copied := make(map[State]edges, len(table))
	for from, row := range table {
		out := make(edges, len(row))
		for action, to := range row {
			out[action] = to
		}
		copied[from] = out
	}
	for from, row := range copied {
		for action, to := range row {
			if _, ok := copied[to]; !ok {
				return nil, fmt.Errorf("%w: %s --%s--> %s", ErrUnknownTargetState, from, action, to)
			}
		}
	}
	return &StateMachine{table: copied}, nil
}

// UserJourney returns the user journey state machine.
func UserJourney() *StateMachine {
	raw := userJourneyTable()
	table := make(map[State]map[Action]State, len(raw))
	for from, row := range raw {
		table[from] = row
	}
	m, err := NewStateMachine(table)
	if err != nil {
		panic(err)
	}
	return m
}

// Transition returns the state reached by action from from.
func (m *StateMachine) Transition(from State, action Action) (State, error) {
	if next, ok := m.table[from][action]; ok {
		return next, nil
	}
	return from, &InvalidTransitionError{From: from, Action: action}
}

// Apply moves the session along action. On error the session is untouched.
func (m *StateMachine) Apply(s *Session, action Action) error {
	next, err := m.Transition(s.State, action)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// ValidateTarget checks that some single action leads from from to to.
func (m *StateMachine) ValidateTarget(from, to State) error {
	for _, next := range m.table[from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// Actions lists the legal actions from a state in a stable order.
func (m *StateMachine) Actions(from State) []Action {
	row := m.table[from]
	out := make([]Action, 0, len(row))
	for action := range row {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// States lists every state with a row in the table.
func (m *StateMachine) States() []State {
	out := make([]State, 0, len(m.table))
	for s := range m.table {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
