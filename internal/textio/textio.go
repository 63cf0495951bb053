// Package textio is the typed front end: lines in, lines out.
package textio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"nova/internal/session"
)

// Source reads one utterance per line.
type Source struct {
	scan   *bufio.Scanner
	prompt string
	out    io.Writer

	lines chan line
	once  sync.Once
}

type line struct {
	text string
	err  error
}

// NewSource reads from r. A non-empty prompt is written to out before
// each line.
func NewSource(r io.Reader, out io.Writer, prompt string) *Source {
	return &Source{
		scan:   bufio.NewScanner(r),
		prompt: prompt,
		out:    out,
		lines:  make(chan line),
	}
}

// Listen blocks for the next line. Blank lines are ErrNoInput, end of
// input is io.EOF.
func (s *Source) Listen(ctx context.Context) (session.Input, error) {
	s.once.Do(func() { go s.read() })

	if s.prompt != "" && s.out != nil {
		fmt.Fprint(s.out, s.prompt)
	}

	select {
	case <-ctx.Done():
		return session.Input{}, ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return session.Input{}, io.EOF
		}
		if l.err != nil {
			return session.Input{}, l.err
		}
		if strings.TrimSpace(l.text) == "" {
			return session.Input{}, session.ErrNoInput
		}
		return session.Input{Text: l.text}, nil
	}
}

// read runs for the lifetime of the input; stdin cannot be interrupted.
func (s *Source) read() {
	defer close(s.lines)
	for s.scan.Scan() {
		s.lines <- line{text: s.scan.Text()}
	}
	if err := s.scan.Err(); err != nil {
		s.lines <- line{err: err}
	}
}

// Sink writes each reply on its own line, prefixed with the speaker name.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

func NewSink(w io.Writer, prefix string) *Sink {
	return &Sink{w: w, prefix: prefix}
}

func (s *Sink) Say(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s%s\n", s.prefix, text)
	return err
}
