// Package prompt abstracts the interactive fallbacks used when OCR or
// resolution cannot proceed on its own. Domain code takes a Prompter so the
// batch tool can use the terminal while tests and automated runs inject
// canned answers.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter is the resolution strategy for decisions a human has to make.
type Prompter interface {
	// ConfirmMatch asks whether a similar-looking title is the right one.
	ConfirmMatch(candidate string) bool
	// ChooseRow presents duplicate candidates and returns the selected row index.
	ChooseRow(listing string) (int, error)
	// Text asks for a free-form replacement value (title, stats line, address field).
	Text(label string) string
}

// Terminal reads answers from an input stream, stdout for questions.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	sc *bufio.Scanner
}

// NewTerminal returns a Prompter on stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// readLine shares one Scanner across prompts; a fresh Scanner per call would
// buffer ahead of the first answer and drop the rest on piped input.
func (t *Terminal) readLine() string {
	if t.sc == nil {
		t.sc = bufio.NewScanner(t.In)
	}
	if t.sc.Scan() {
		return strings.TrimSpace(t.sc.Text())
	}
	return ""
}

func (t *Terminal) ConfirmMatch(candidate string) bool {
	fmt.Fprintf(t.Out, "Found similar match '%s'. Accept? (y/n)   ", candidate)
	return t.readLine() == "y"
}

func (t *Terminal) ChooseRow(listing string) (int, error) {
	fmt.Fprintf(t.Out, "%s\nEnter correct INDEX:\t", listing)
	n, err := strconv.Atoi(t.readLine())
	if err != nil {
		return 0, fmt.Errorf("row index: %w", err)
	}
	return n, nil
}

func (t *Terminal) Text(label string) string {
	fmt.Fprintf(t.Out, "Enter %s:\t", label)
	return t.readLine()
}

// Scripted replays fixed answers in order. Used by tests and by
// non-interactive runs that pre-resolve their fallbacks.
type Scripted struct {
	Confirms []bool
	Rows     []int
	Texts    []string

	// Labels records every Text label asked, in order.
	Labels []string
}

var errScriptExhausted = errors.New("scripted prompter: no answer left")

func (s *Scripted) ConfirmMatch(string) bool {
	if len(s.Confirms) == 0 {
		return false
	}
	v := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return v
}

func (s *Scripted) ChooseRow(string) (int, error) {
	if len(s.Rows) == 0 {
		return 0, errScriptExhausted
	}
	v := s.Rows[0]
	s.Rows = s.Rows[1:]
	return v, nil
}

func (s *Scripted) Text(label string) string {
	s.Labels = append(s.Labels, label)
	if len(s.Texts) == 0 {
		return ""
	}
	v := s.Texts[0]
	s.Texts = s.Texts[1:]
	return v
}
