// Package display implements the rolling conversation display (spec.md
// §6): a purely advisory collaborator that receives (reward, input,
// reply) triples and renders a scrolling window of the recent exchange.
// Nothing here feeds back into the learner brain.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"
)

const defaultCapacity = 80

// Line is one observed (reward, input, reply) triple.
type Line struct {
	Reward rune
	Input  rune
	Reply  rune
}

// Display renders a bounded rolling window of Lines.
type Display struct {
	out      io.Writer
	color    bool
	capacity int
	window   []Line
}

// New returns a Display writing to out. Color is enabled only when out is
// a terminal (spec.md names no fixed width; defaultCapacity matches a
// narrow terminal so the window never wraps on a typical session).
func New(out io.Writer, capacity int) *Display {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Display{out: out, color: color, capacity: capacity}
}

// Observe appends one triple to the rolling window, dropping the oldest
// entry once capacity is exceeded, and renders the updated window.
func (d *Display) Observe(reward, input, reply rune) {
	d.window = append(d.window, Line{Reward: reward, Input: input, Reply: reply})
	if len(d.window) > d.capacity {
		d.window = d.window[len(d.window)-d.capacity:]
	}
	d.render()
}

// Window returns a copy of the currently displayed lines.
func (d *Display) Window() []Line { return append([]Line(nil), d.window...) }

// Footer renders a one-line status summary below the rolling window:
// ticks seen and the total number of rules currently held across every
// family, each formatted with thousands separators.
func (d *Display) Footer(ticks uint64, ruleCount int) {
	fmt.Fprintf(d.out, "-- %s ticks, %s rules --\n", humanize.Comma(int64(ticks)), humanize.Comma(int64(ruleCount)))
}

func (d *Display) render() {
	var teacher, rewards, replies strings.Builder
	for _, l := range d.window {
		teacher.WriteRune(glyph(l.Input))
		rewards.WriteRune(rewardGlyph(l.Reward))
		replies.WriteRune(glyph(l.Reply))
	}

	ts := strftime.Format("%H:%M:%S", time.Now())

	fmt.Fprintf(d.out, "[%s] teacher: %s\n", ts, teacher.String())
	fmt.Fprintf(d.out, "[%s] reward:  %s\n", ts, d.colorRewards(rewards.String()))
	fmt.Fprintf(d.out, "[%s] reply:   %s\n", ts, replies.String())
}

func glyph(r rune) rune {
	if r == 0 {
		return ' '
	}
	return r
}

func rewardGlyph(r rune) rune {
	switch r {
	case '+', '-':
		return r
	default:
		return '.'
	}
}

func (d *Display) colorRewards(s string) string {
	if !d.color {
		return s
	}
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '+':
			sb.WriteString("\x1b[32m+\x1b[0m")
		case '-':
			sb.WriteString("\x1b[31m-\x1b[0m")
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
