// Package cryptolalia is the public façade over the learner brain (spec.md
// §6 Core API): Answer and RegisterReward, with boundary validation on the
// reward argument that the internal brain package assumes is already
// well-formed.
package cryptolalia

import (
	"fmt"

	"github.com/google/uuid"

	"cryptolalia/internal/brain"
)

// Agent is one learner brain instance bound to a single teacher session.
type Agent struct {
	brain *brain.Brain
}

// New returns a fresh Agent with no learned state.
func New() *Agent {
	return &Agent{brain: brain.New()}
}

// SessionID identifies this agent instance for log correlation.
func (a *Agent) SessionID() uuid.UUID { return a.brain.SessionID }

// Stats returns a read-only diagnostics snapshot for display/log
// collaborators; it never feeds back into learning.
func (a *Agent) Stats() brain.Stats { return a.brain.Stats() }

// Answer drives the stream state machine with ch and always returns
// exactly one reply character (spec.md §6).
func (a *Agent) Answer(ch rune) rune {
	return a.brain.Answer(ch)
}

// RegisterReward processes one reward character against the just-answered
// question. r must be one of '+', '-', ' '; any other value is a contract
// violation and is rejected here rather than reaching the brain.
func (a *Agent) RegisterReward(r rune, fromInput bool) error {
	switch r {
	case '+', '-', ' ':
		a.brain.RegisterReward(r, fromInput)
		return nil
	default:
		return fmt.Errorf("register reward: invalid reward %q, want one of '+', '-', ' '", r)
	}
}
