// Package syntax discovers and represents the teacher's framing syntax:
// how a question ends, how feedback ends, and the verbose-feedback
// boilerplate that wraps a real answer (spec.md §3, §4.2, §4.3).
package syntax

// Descriptor holds the five syntax fields from spec.md §3.
type Descriptor struct {
	// AnswerNowChar terminates the teacher's question. Zero if unknown.
	AnswerNowChar rune
	// NextRequestChar terminates the teacher's feedback. Zero if unknown.
	NextRequestChar rune
	// InputLength is used only when no answer-now delimiter was found.
	InputLength int
	// FeedbackLength is 0 for single-character tasks.
	FeedbackLength int
	// FeedbackRealChars is how many trailing feedback characters are
	// meaningful; intentionally never reset across task switches (see
	// DESIGN.md Open Question decisions). Syntax discovery sets it to the
	// length of the boilerplate it finds.
	FeedbackRealChars int
	// Words owns the FeedbackWords sub-entity.
	Words *FeedbackWords
}

// NewDescriptor returns a Descriptor in its unknown state.
func NewDescriptor() *Descriptor {
	return &Descriptor{
		InputLength: 1,
		Words:       NewFeedbackWords(),
	}
}

// Clone returns a deep copy, or a fresh unknown Descriptor when d is nil.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return NewDescriptor()
	}
	cp := *d
	cp.Words = d.Words.Clone()
	return &cp
}

// Known reports whether either delimiter has been discovered.
func (d *Descriptor) Known() bool {
	return d != nil && (d.AnswerNowChar != 0 || d.NextRequestChar != 0)
}
