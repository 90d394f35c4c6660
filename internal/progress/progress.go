// Package progress provides CLI progress indicators. Output goes to stderr
// to keep stdout clean for piping (-o json), and nothing is drawn unless
// stderr is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
const minItems = 5

const blank = "                                        "

// Progress counts through a known number of items.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New creates a progress reporter that writes to stderr.
// If total is less than minItems, progress updates are suppressed.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Increment advances the progress counter by one.
func (p *Progress) Increment() {
	p.current++
}

// Print redraws the progress line in place.
func (p *Progress) Print() {
	if p.total < minItems || !p.isTTY {
		return
	}
	pct := (p.current * 100) / p.total
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, p.current, p.total, pct)
}

// Done clears the progress line.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", blank)
}

// Counter shows a running count when the total is unknown, such as rows
// streamed to an external index.
type Counter struct {
	w     io.Writer
	label string
	n     int
	isTTY bool
}

// NewCounter creates a counter that writes to stderr.
func NewCounter(label string) *Counter {
	return &Counter{
		w:     os.Stderr,
		label: label,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Add advances the count by one and redraws every 100 items.
func (c *Counter) Add() {
	c.n++
	if c.isTTY && c.n%100 == 0 {
		fmt.Fprintf(c.w, "\r%s... %d", c.label, c.n)
	}
}

// Count returns the number of items added.
func (c *Counter) Count() int { return c.n }

// Done clears the counter line.
func (c *Counter) Done() {
	if c.isTTY && c.n >= 100 {
		fmt.Fprintf(c.w, "\r%s\r", blank)
	}
}
