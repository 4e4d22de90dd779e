// Package prompt implements the validated console prompt loop used by the
// collector: print a prompt, read a line, parse it, validate it, and keep
// asking until an answer is accepted.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kayz/personas/internal/logger"
)

// ErrNoAnswer is returned in non-interactive mode when a question has no
// prefilled answer.
var ErrNoAnswer = errors.New("no answer provided")

// Question is a single console prompt. Key identifies the question for
// prefilled answers (--set key=value).
type Question struct {
	Key    string
	Prompt string
}

// Parser converts a raw line into a typed value.
type Parser[T any] func(raw string) (T, error)

// Validator rejects parsed values. A nil Validator accepts everything.
type Validator[T any] func(v T) error

// Prompter owns the console streams and the prefilled answers.
type Prompter struct {
	reader         *bufio.Reader
	out            io.Writer
	prefill        map[string]string
	nonInteractive bool
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithPrefill supplies answers keyed by Question.Key. A prefilled answer is
// used instead of reading the console.
func WithPrefill(answers map[string]string) Option {
	return func(p *Prompter) {
		for k, v := range answers {
			p.prefill[k] = v
		}
	}
}

// WithNonInteractive makes questions without a prefilled answer fail with
// ErrNoAnswer instead of prompting.
func WithNonInteractive(v bool) Option {
	return func(p *Prompter) {
		p.nonInteractive = v
	}
}

// New returns a Prompter reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		reader:  bufio.NewReader(in),
		out:     out,
		prefill: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Printf writes to the prompt stream.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a line to the prompt stream.
func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Prefilled returns the prefilled answer for key, if any.
func (p *Prompter) Prefilled(key string) (string, bool) {
	v, ok := p.prefill[key]
	return v, ok
}

// Interactive reports whether unanswered questions are asked on the console.
func (p *Prompter) Interactive() bool {
	return !p.nonInteractive
}

// Line prints the prompt and returns the next raw line with the line ending
// removed. No parsing or validation is applied.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts as an answer.
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Ask runs the validated prompt loop for q. Invalid answers print
// "Invalid input: <reason>. Please try again." and the question is asked
// again, with no retry limit. The returned error is only ever an input
// stream error (io.EOF included), an invalid prefilled answer, or
// ErrNoAnswer in non-interactive mode.
func Ask[T any](p *Prompter, q Question, parse Parser[T], validate Validator[T]) (T, error) {
	var zero T

	if raw, ok := p.prefill[q.Key]; ok {
		v, err := accept(raw, parse, validate)
		if err != nil {
			return zero, fmt.Errorf("%s: invalid prefilled answer %q: %w", q.Key, raw, err)
		}
		logger.Debug("using prefilled answer for %s", q.Key)
		return v, nil
	}

	if p.nonInteractive {
		return zero, fmt.Errorf("%s: %w (provide with --set %s=...)", q.Key, ErrNoAnswer, q.Key)
	}

	logger.Trace("asking %s", q.Key)
	for {
		fmt.Fprint(p.out, q.Prompt)

		line, err := p.readLine()
		if err != nil {
			return zero, fmt.Errorf("read %s: %w", q.Key, err)
		}

		v, err := accept(line, parse, validate)
		if err != nil {
			logger.Debug("rejected answer for %s: %v", q.Key, err)
			fmt.Fprintf(p.out, "Invalid input: %v. Please try again.\n", err)
			continue
		}
		return v, nil
	}
}

func accept[T any](raw string, parse Parser[T], validate Validator[T]) (T, error) {
	v, err := parse(raw)
	if err != nil {
		return v, err
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return v, err
		}
	}
	return v, nil
}
