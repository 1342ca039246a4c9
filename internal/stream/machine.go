// Package stream implements the teacher/student stream state machine
// (spec.md §4.1): accumulating one teacher character and one reward per
// tick into a question/answer/feedback tuple, and driving the
// input→output→feedback cycle.
package stream

import (
	"cryptolalia/internal/syntax"
)

// State is one of the three stream states.
type State int

const (
	ReceivingInput State = iota
	InLongOutput
	ReceivingFeedback
)

const (
	maxStreamLen  = 10000
	trimDropLen   = 9000
)

// Machine is the stream state machine. It owns no syntax state itself —
// the Descriptor is supplied by the caller (the brain) and read here, but
// never mutated here.
type Machine struct {
	descriptor *syntax.Descriptor

	inputs  string
	rewards string

	state State

	fullInput    string
	fullOutput   string
	fullFeedback string

	queuedOutput []rune
	lastOutput   rune

	isAllReady          bool
	isOutputLeft        bool
	shouldSendOutputNow bool
	rewardInInputOnly   bool
	stateOk             bool
}

// New returns a Machine bound to the given syntax descriptor.
func New(descriptor *syntax.Descriptor) *Machine {
	return &Machine{
		descriptor: descriptor,
		stateOk:    true,
	}
}

// Rebind swaps in a new syntax descriptor (used by Brain.NewTask).
func (m *Machine) Rebind(descriptor *syntax.Descriptor) {
	m.descriptor = descriptor
}

// Inputs returns the rolling teacher-character stream.
func (m *Machine) Inputs() string { return m.inputs }

// Rewards returns the rolling reward stream, aligned with Inputs.
func (m *Machine) Rewards() string { return m.rewards }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// IsAllReady reports whether the current question tuple is complete.
func (m *Machine) IsAllReady() bool { return m.isAllReady }

// IsOutputLeft reports whether the agent still owes output characters.
func (m *Machine) IsOutputLeft() bool { return m.isOutputLeft }

// ShouldSendOutputNow reports whether the controller should compute and
// queue a full output string now.
func (m *Machine) ShouldSendOutputNow() bool { return m.shouldSendOutputNow }

// ConsumeShouldSendOutputNow clears the one-shot output-now signal once
// the controller has acted on it.
func (m *Machine) ConsumeShouldSendOutputNow() { m.shouldSendOutputNow = false }

// RewardInInputOnly reports whether the teacher's own later input must be
// treated as the reward signal (no-reward mode).
func (m *Machine) RewardInInputOnly() bool { return m.rewardInInputOnly }

// DelimitersKnown reports whether the bound syntax descriptor has
// discovered at least one delimiter.
func (m *Machine) DelimitersKnown() bool { return m.descriptor.Known() }

// StateOk reports whether the state machine is internally consistent; it
// goes false when the teacher's behavior contradicts the inferred syntax
// (spec.md §4.1 InLongOutput transition, §7 protocol violation).
func (m *Machine) StateOk() bool { return m.stateOk }

// ResetStateOk clears a protocol-inconsistency flag after the controller
// has reacted to it (full task reset).
func (m *Machine) ResetStateOk() { m.stateOk = true }

// FullInput, FullOutput, FullFeedback expose the current question tuple.
func (m *Machine) FullInput() string    { return m.fullInput }
func (m *Machine) FullOutput() string   { return m.fullOutput }
func (m *Machine) FullFeedback() string { return m.fullFeedback }

// IsTeacherSilent reports no-reward mode: the last 50 teacher chars and
// last 49 rewards are all blank.
func (m *Machine) IsTeacherSilent() bool {
	return syntax.TrimBlankTail(m.inputs, m.rewards)
}

// SetReward registers the reward received this tick, aligned against the
// rolling streams. fromInput indicates the reward was inferred from the
// teacher's own input rather than an explicit reward frame (no-reward
// mode).
func (m *Machine) SetReward(r rune, fromInput bool) {
	m.rewards += string(r)
	m.rewards = syntax.TrimStream(m.rewards, maxStreamLen, trimDropLen)
	m.rewardInInputOnly = fromInput
}

// SetOutput queues a full output string to be drained one character per
// GetOutput call.
func (m *Machine) SetOutput(s string) {
	m.queuedOutput = []rune(s)
	m.isOutputLeft = len(m.queuedOutput) > 0
}

// GetOutput dequeues and returns the next output character, or the zero
// rune if none is queued.
func (m *Machine) GetOutput() rune {
	if len(m.queuedOutput) == 0 {
		m.isOutputLeft = false
		return 0
	}
	c := m.queuedOutput[0]
	m.queuedOutput = m.queuedOutput[1:]
	m.isOutputLeft = len(m.queuedOutput) > 0
	m.lastOutput = c
	return c
}

// ClearOutput discards any queued output (used on reward '-').
func (m *Machine) ClearOutput() {
	m.queuedOutput = nil
	m.isOutputLeft = false
}

// ProcessState consumes one teacher character and advances the state
// machine (spec.md §4.1).
func (m *Machine) ProcessState(c rune) {
	if m.isAllReady {
		// A previous question tuple was fully consumed; start fresh.
		m.fullInput = ""
		m.fullOutput = ""
		m.fullFeedback = ""
		m.isAllReady = false
		m.state = ReceivingInput
	}

	m.inputs += string(c)
	m.inputs = syntax.TrimStream(m.inputs, maxStreamLen, trimDropLen)

	switch m.state {
	case ReceivingInput:
		m.fullInput += string(c)
		answerNow := m.descriptor.AnswerNowChar != 0 && c == m.descriptor.AnswerNowChar
		lengthReached := m.descriptor.AnswerNowChar == 0 &&
			m.descriptor.InputLength > 0 &&
			len([]rune(m.fullInput)) >= m.descriptor.InputLength
		if answerNow || lengthReached {
			m.transitionAfterInput()
		}

	case InLongOutput:
		if c != ' ' {
			if m.lastOutput == m.descriptor.AnswerNowChar && m.descriptor.AnswerNowChar != 0 {
				// Legitimate feedback arriving while we still owe output.
				m.state = ReceivingFeedback
				m.fullFeedback += string(c)
				m.maybeCompleteFeedback(c)
			} else {
				// The syntax model is wrong: the teacher interrupted
				// mid-answer without us having reached the delimiter.
				m.stateOk = false
			}
		}

	case ReceivingFeedback:
		m.fullFeedback += string(c)
		m.maybeCompleteFeedback(c)
	}
}

func (m *Machine) transitionAfterInput() {
	switch {
	case m.descriptor.FeedbackLength > 1:
		m.state = InLongOutput
		m.shouldSendOutputNow = true
	case m.descriptor.FeedbackLength <= 0:
		// No feedback text at all: single-character tasks signal success
		// or failure purely through the reward channel.
		m.isAllReady = true
		m.shouldSendOutputNow = true
	default:
		m.state = ReceivingFeedback
		m.shouldSendOutputNow = true
	}
}

func (m *Machine) maybeCompleteFeedback(last rune) {
	if m.isWithinWrongFeedbackBoilerplate() {
		return
	}
	terminated := false
	if m.descriptor.NextRequestChar != 0 && last == m.descriptor.NextRequestChar {
		terminated = true
	} else if m.descriptor.NextRequestChar == 0 && m.descriptor.FeedbackLength == 1 {
		terminated = true
	}
	if terminated {
		m.isAllReady = true
	}
}

// isWithinWrongFeedbackBoilerplate reports whether the accumulated
// feedback so far is a prefix or suffix of the known WrongFeedbackWords
// boilerplate — in which case the same literal char that would otherwise
// be the next-request delimiter is not a separator here (spec.md §4.1).
func (m *Machine) isWithinWrongFeedbackBoilerplate() bool {
	wrong := m.descriptor.Words.WrongFeedbackWords
	if wrong == "" {
		return false
	}
	fb := m.fullFeedback
	if len(fb) >= len(wrong) {
		return false
	}
	return wrong[:len(fb)] == fb || (len(wrong) >= len(fb) && wrong[len(wrong)-len(fb):] == fb)
}
