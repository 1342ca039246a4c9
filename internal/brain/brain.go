// Package brain implements the learner controller (spec.md §4.9): the
// single object tying the stream state machine, syntax discoverer, the
// five rule families, the successful-log, and the alphabet together into
// one Answer/RegisterReward cycle.
package brain

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"cryptolalia/internal/rules/chargeneric"
	"cryptolalia/internal/rules/mapping"
	"cryptolalia/internal/rules/mathrule"
	"cryptolalia/internal/rules/wordgeneric"
	"cryptolalia/internal/seenlog"
	"cryptolalia/internal/stream"
	"cryptolalia/internal/syntax"
)

const (
	consecutiveLosesLimit = 100
	consecutiveWinsLimit  = 10
)

// ruleFamily identifies which deletable rule family produced the most
// recent answer, so the task-switch arbiter's softer remediation path
// knows what to delete.
type ruleFamily int

const (
	noRuleFamily ruleFamily = iota
	charGenericFamily
	wordGenericFamily
	sizeFamily
)

type lastAnswer struct {
	family       ruleFamily
	inputPattern string
}

// Brain is the learner controller for one teacher connection.
type Brain struct {
	SessionID uuid.UUID

	descriptor *syntax.Descriptor
	machine    *stream.Machine

	mapping *mapping.Store
	charGen *chargeneric.Store
	sizeGen *chargeneric.SizeStore
	wordGen *wordgeneric.Store
	math    *mathrule.Store
	seen    *seenlog.Log
	alpha   *alphabet

	consecutiveWins  int
	consecutiveLoses int
	totalRewards     int
	ticks            uint64

	lastAnswer       lastAnswer
	lastAnswerOutput string
	lastEmitted      rune

	// taskStartOffset is the rune length of the machine's rewards stream
	// at the moment the current task began, so syntax discovery only ever
	// looks at "the first four rewards of a task" (spec.md §4.2) rather
	// than replaying a prior task's already-consumed reward history.
	taskStartOffset int

	SwitchLog []string
}

// New returns a Brain with every rule store empty and syntax unknown.
func New() *Brain {
	desc := syntax.NewDescriptor()
	return &Brain{
		SessionID:  uuid.New(),
		descriptor: desc,
		machine:    stream.New(desc),
		mapping:    mapping.New(),
		charGen:    chargeneric.New(),
		sizeGen:    chargeneric.NewSizeStore(),
		wordGen:    wordgeneric.New(),
		math:       mathrule.New(),
		seen:       seenlog.New(),
		alpha:      newAlphabet(),
	}
}

// Descriptor exposes the current syntax descriptor (read-only use by
// transport/display collaborators).
func (b *Brain) Descriptor() *syntax.Descriptor { return b.descriptor }

// Stats is a read-only diagnostics snapshot for the display/log
// collaborators (SPEC_FULL.md's diagnostics supplement). It never feeds
// back into learning.
type Stats struct {
	Ticks            uint64
	MappingOutputs   int
	CharGenericRules int
	WordGenericRules int
	SizeRules        int
	MathRules        int
	ConsecutiveWins  int
	ConsecutiveLoses int
}

// Stats returns a snapshot of the brain's current rule-store sizes and
// win/loss streak.
func (b *Brain) Stats() Stats {
	return Stats{
		Ticks:            b.ticks,
		MappingOutputs:   b.mapping.DistinctOutputsObserved(),
		CharGenericRules: len(b.charGen.Rules()),
		WordGenericRules: len(b.wordGen.Rules()),
		SizeRules:        len(b.sizeGen.Rules()),
		MathRules:        len(b.math.Rules()),
		ConsecutiveWins:  b.consecutiveWins,
		ConsecutiveLoses: b.consecutiveLoses,
	}
}

func (b *Brain) multiCharMode() bool { return b.descriptor.FeedbackLength > 1 }

// tryDiscoverSyntax runs the syntax discoverer over the current task's
// slice of the rolling streams once four non-blank rewards are available,
// and adopts the result (spec.md §4.2). A no-op once the descriptor is
// already known.
func (b *Brain) tryDiscoverSyntax() {
	if b.descriptor.Known() {
		return
	}

	inputs := []rune(b.machine.Inputs())
	rewards := []rune(b.machine.Rewards())
	offset := b.taskStartOffset
	if offset > len(inputs) {
		offset = len(inputs)
	}
	if offset > len(rewards) {
		offset = len(rewards)
	}

	desc, ok := syntax.Discover(string(inputs[offset:]), string(rewards[offset:]))
	if !ok {
		return
	}
	b.descriptor = &desc
	b.machine.Rebind(b.descriptor)
}

func (b *Brain) lookupKey(input string) string {
	wrong := b.descriptor.Words.WrongFeedbackWords
	if wrong == "" {
		return input
	}
	return strings.ReplaceAll(input, wrong, "")
}

// Answer drives the stream state machine with c, records c in the
// alphabet, and returns the reply character (spec.md §4.9).
func (b *Brain) Answer(c rune) rune {
	b.ticks++
	b.alpha.Observe(c)
	b.machine.ProcessState(c)

	if b.machine.IsTeacherSilent() {
		return b.noRewardAnswer()
	}

	if b.machine.IsOutputLeft() {
		return b.machine.GetOutput()
	}

	if b.machine.ShouldSendOutputNow() {
		b.machine.ConsumeShouldSendOutputNow()
		out := b.AnswerWithRules(b.machine.FullInput())
		b.lastAnswerOutput = out
		b.machine.SetOutput(out)
		return b.machine.GetOutput()
	}

	return ' '
}

func (b *Brain) noRewardAnswer() rune {
	c, ok := b.alpha.NextUntried()
	if !ok {
		b.alpha.ResetTried()
		c, ok = b.alpha.First()
		if !ok {
			return 0
		}
	}
	b.alpha.MarkTried(c)
	b.lastEmitted = c
	return c
}

// AnswerWithRules computes a full output string for input by walking the
// seven-tier priority chain (spec.md §4.9).
func (b *Brain) AnswerWithRules(input string) string {
	b.lastAnswer = lastAnswer{}
	key := b.lookupKey(input)

	if r, ok := b.mapping.Retrieve(key); ok {
		return r.Output
	}

	if out, ok := b.math.ApplyMatchingRule(input); ok {
		return out
	}
	if out, ok := b.charGen.ApplyMatchingRule(input); ok {
		if rule, found := b.findCharGenericRule(input); found {
			b.lastAnswer = lastAnswer{family: charGenericFamily, inputPattern: rule.InputPattern}
		}
		return out
	}
	if out, ok := b.wordGen.ApplyMatchingRule(input); ok {
		if rule, found := b.findWordGenericRule(input); found {
			b.lastAnswer = lastAnswer{family: wordGenericFamily, inputPattern: rule.InputPattern}
		}
		return out
	}
	if sr, out, ok := b.applySizeRuleTracked(input); ok {
		b.lastAnswer = lastAnswer{family: sizeFamily, inputPattern: sr.BaseInputPattern}
		return out
	}
	if out, ok := b.math.ApplyCompoundRolling(input); ok {
		return out
	}
	if out, ok := b.charGen.ApplyCompound(input); ok {
		return out
	}
	if out, ok := b.wordGen.ApplyCompound(input); ok {
		return out
	}
	if out, ok := b.charGen.ApplyClosest(input); ok {
		return out
	}
	if out, ok := b.seen.ClosestByTokenOverlap(input); ok {
		return out
	}
	if last, ok := b.seen.Last(); ok {
		return last.Output
	}

	if uv := b.mapping.UniformValue(); uv != "" && !b.mapping.IsFailed(key, uv) {
		return uv
	}

	if !b.mapping.IsFailed(key, input) {
		return input
	}

	for _, o := range b.mapping.RetrieveOutputsSortedByFreq() {
		if !b.mapping.IsFailed(key, o) {
			return o
		}
	}

	if c, ok := b.alpha.NextUntried(); ok {
		b.alpha.MarkTried(c)
		return string(c)
	}

	return string(b.lastEmitted)
}

func (b *Brain) findCharGenericRule(input string) (chargeneric.Rule, bool) {
	for _, r := range b.charGen.Rules() {
		if _, ok := chargeneric.ApplyRule(r, input); ok {
			return r, true
		}
	}
	return chargeneric.Rule{}, false
}

func (b *Brain) findWordGenericRule(input string) (wordgeneric.Rule, bool) {
	for _, r := range b.wordGen.Rules() {
		if _, ok := wordgeneric.ApplyRule(r, input); ok {
			return r, true
		}
	}
	return wordgeneric.Rule{}, false
}

func (b *Brain) applySizeRuleTracked(input string) (chargeneric.SizeRule, string, bool) {
	for _, sr := range b.sizeGen.Rules() {
		if out, ok := chargeneric.ApplySizeRule(sr, input); ok {
			return sr, out, true
		}
	}
	return chargeneric.SizeRule{}, "", false
}

// RegisterReward processes one reward character against the just-answered
// question (spec.md §4.9).
func (b *Brain) RegisterReward(r rune, fromInput bool) {
	b.machine.SetReward(r, fromInput)
	b.tryDiscoverSyntax()
	if b.machine.IsAllReady() {
		if fb := b.machine.FullFeedback(); fb != "" {
			b.descriptor.Words.Observe(fb)
		}
	}

	switch r {
	case '+':
		b.registerSuccess()
	case '-':
		b.registerFailure()
	}
}

func (b *Brain) registerSuccess() {
	b.totalRewards++
	input := b.machine.FullInput()
	output := b.lastAnswerOutput
	b.mapping.Successful(b.lookupKey(input), output)

	if b.multiCharMode() {
		for _, p := range b.seen.All() {
			if rule, ok := mathrule.AbstractGenericRule(p.Input, p.Output, input, output); ok {
				b.math.Add(rule)
				continue
			}
			if rule, ok := chargeneric.AbstractGenericRule(p.Input, p.Output, input, output, b.descriptor.AnswerNowChar); ok {
				if b.charGen.Add(rule) {
					b.induceSizeRules(rule)
				}
			}
			if rule, ok := wordgeneric.AbstractGenericRule(p.Input, p.Output, input, output, b.descriptor.AnswerNowChar); ok {
				b.wordGen.Add(rule)
			}
		}
	}

	b.seen.Append(seenlog.Pair{Input: input, Output: output})
	b.consecutiveWins++
	b.consecutiveLoses = 0
}

// induceSizeRules compares a freshly accepted char-generic rule against
// every prior one, in both directions, attempting the 1-to-1 size
// generalization (spec.md §4.8).
func (b *Brain) induceSizeRules(newRule chargeneric.Rule) {
	for _, existing := range b.charGen.Rules() {
		if existing.InputPattern == newRule.InputPattern {
			continue
		}
		if sr, ok := chargeneric.AbstractGenericRule1To1(newRule.InputPattern, newRule.OutputPattern, existing.InputPattern, existing.OutputPattern); ok {
			b.sizeGen.Add(sr)
			continue
		}
		if sr, ok := chargeneric.AbstractGenericRule1To1(existing.InputPattern, existing.OutputPattern, newRule.InputPattern, newRule.OutputPattern); ok {
			b.sizeGen.Add(sr)
		}
	}
}

func (b *Brain) registerFailure() {
	b.totalRewards++
	input := b.machine.FullInput()
	output := b.lastAnswerOutput

	key := b.lookupKey(input)
	priorRule, hadPriorRule := b.mapping.Retrieve(key)
	mappingViolated := hadPriorRule && priorRule.Output == output

	b.mapping.Failed(key, output)
	b.machine.ClearOutput()

	b.taskSwitchArbiter(mappingViolated)

	b.consecutiveLoses++
	b.consecutiveWins = 0
}

// taskSwitchArbiter implements spec.md §4.9's task-switch arbiter.
func (b *Brain) taskSwitchArbiter(mappingViolated bool) {
	priorWrong := b.descriptor.Words.WrongFeedbackWords
	newWrong := b.descriptor.Words.LearnWrongFeedbackWords()
	gotNewBoilerplate := newWrong != "" && newWrong != priorWrong
	if newWrong != "" {
		b.descriptor.FeedbackRealChars = len([]rune(newWrong))
	}

	hardSwitch := b.consecutiveLoses > consecutiveLosesLimit ||
		(mappingViolated && !gotNewBoilerplate &&
			(b.totalRewards >= 4 || len([]rune(newWrong)) <= b.descriptor.FeedbackRealChars)) ||
		!b.machine.StateOk() ||
		(b.consecutiveWins >= consecutiveWinsLimit && mappingViolated)

	if hardSwitch {
		b.logTaskSwitch()
		b.NewTask(len([]rune(b.machine.Rewards())) > 3)
		return
	}

	if b.lastAnswer.family == noRuleFamily {
		return
	}
	b.descriptor.Words.LearnWrongFeedbackWords()
	switch b.lastAnswer.family {
	case charGenericFamily:
		b.charGen.Remove(b.lastAnswer.inputPattern)
		b.sizeGen.Remove(b.lastAnswer.inputPattern)
	case wordGenericFamily:
		b.wordGen.Remove(b.lastAnswer.inputPattern)
	case sizeFamily:
		b.sizeGen.Remove(b.lastAnswer.inputPattern)
	}
	b.lastAnswer = lastAnswer{}
}

// NewTask rebuilds the mapping store and, optionally, the syntax
// descriptor's delimiters (spec.md §3 Lifecycles, §4.9, §7). The four
// generic-rule stores (char-generic, char-generic-size, word-generic,
// math) are never touched here — generalizations survive task switches by
// design — and the alphabet and successful-log persist for the same
// reason: none of them are task-local state.
func (b *Brain) NewTask(copyDelimiters bool) {
	b.mapping = mapping.New()
	b.consecutiveWins = 0
	b.consecutiveLoses = 0
	b.totalRewards = 0
	b.lastAnswer = lastAnswer{}

	var desc *syntax.Descriptor
	if copyDelimiters {
		desc = &syntax.Descriptor{
			AnswerNowChar:   b.descriptor.AnswerNowChar,
			NextRequestChar: b.descriptor.NextRequestChar,
			InputLength:     b.descriptor.InputLength,
			FeedbackLength:  b.descriptor.FeedbackLength,
			Words:           syntax.NewFeedbackWords(),
		}
	} else {
		desc = syntax.NewDescriptor()
	}
	desc.FeedbackRealChars = b.descriptor.FeedbackRealChars
	b.descriptor = desc
	b.machine.Rebind(desc)
	b.machine.ResetStateOk()
	b.taskStartOffset = len([]rune(b.machine.Rewards()))
}

func (b *Brain) logTaskSwitch() {
	ts := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	line := fmt.Sprintf("[%s] session %s: task switch after %s ticks, %d consecutive loses",
		ts, b.SessionID, humanize.Comma(int64(b.ticks)), b.consecutiveLoses)
	b.SwitchLog = append(b.SwitchLog, line)
}
