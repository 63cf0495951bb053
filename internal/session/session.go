// Package session runs the listen, respond, speak loop over pluggable
// input and output.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"nova/internal/dispatch"
	"nova/internal/intent"
	"nova/internal/persona"
)

// ErrNoInput means nothing usable was heard; the loop keeps listening.
var ErrNoInput = errors.New("no input")

// Input is one utterance. Respond, when set, also receives the reply,
// e.g. to answer the client that sent the utterance.
type Input struct {
	Text    string
	Respond func(ctx context.Context, res dispatch.Result) error
}

// Source yields utterances. io.EOF ends the session.
type Source interface {
	Listen(ctx context.Context) (Input, error)
}

// Sink delivers replies to the user.
type Sink interface {
	Say(ctx context.Context, text string) error
}

type SinkFunc func(ctx context.Context, text string) error

func (f SinkFunc) Say(ctx context.Context, text string) error { return f(ctx, text) }

type Option func(*Session)

// WithWake requires a wake phrase in front of every utterance and strips it.
func WithWake(w *WakeDetector) Option {
	return func(s *Session) { s.wake = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithoutGreeting skips the opening line.
func WithoutGreeting() Option {
	return func(s *Session) { s.greet = false }
}

type Session struct {
	d     *dispatch.Dispatcher
	src   Source
	sink  Sink
	wake  *WakeDetector
	greet bool
	log   *slog.Logger

	handled int
}

func New(d *dispatch.Dispatcher, src Source, sink Sink, opts ...Option) *Session {
	s := &Session{
		d:     d,
		src:   src,
		sink:  sink,
		greet: true,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run greets, then answers one utterance at a time until the user says
// goodbye, the source is exhausted or ctx is cancelled. Source errors
// other than ErrNoInput and io.EOF end the session and are returned.
func (s *Session) Run(ctx context.Context) error {
	started := time.Now()
	defer func() {
		s.log.Info("Session summary",
			"commands", s.handled,
			"duration", time.Since(started).Round(time.Second).String())
	}()

	if s.greet {
		s.say(ctx, s.d.Greeting())
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		in, err := s.src.Listen(ctx)
		switch {
		case errors.Is(err, ErrNoInput):
			continue
		case errors.Is(err, io.EOF):
			s.log.Info("Input closed")
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("listen: %w", err)
		}

		res, ok := s.Handle(ctx, in)
		if ok && res.Intent == intent.Exit {
			s.log.Info("Exit requested")
			return nil
		}
	}
}

// Ignored is the outcome reported to a waiting caller when its input was
// dropped before dispatch.
const Ignored dispatch.Outcome = "ignored"

// Handle answers a single input. ok is false when the input was dropped
// because the wake phrase was missing; the caller still gets an Ignored
// result through in.Respond. Blank text is dispatched like any other.
func (s *Session) Handle(ctx context.Context, in Input) (dispatch.Result, bool) {
	text := strings.TrimSpace(in.Text)
	if s.wake != nil {
		heard, rest := s.wake.Detect(text)
		if !heard {
			s.log.Debug("No wake phrase", "text", text)
			s.drop(ctx, in, "")
			return dispatch.Result{}, false
		}
		if rest == "" {
			prompt := s.d.Phrase(persona.Listening)
			s.say(ctx, prompt)
			s.drop(ctx, in, prompt)
			return dispatch.Result{}, false
		}
		text = rest
	}

	s.handled++
	res := s.d.Respond(ctx, text)
	s.log.Info("Responded", "intent", res.Intent, "outcome", string(res.Outcome))

	s.say(ctx, res.Text)
	if in.Respond != nil {
		if err := in.Respond(ctx, res); err != nil {
			s.log.Warn("Failed to deliver reply", "err", err)
		}
	}
	return res, true
}

func (s *Session) drop(ctx context.Context, in Input, text string) {
	if in.Respond == nil {
		return
	}
	res := dispatch.Result{Intent: intent.Unknown, Outcome: Ignored, Text: text}
	if err := in.Respond(ctx, res); err != nil {
		s.log.Warn("Failed to deliver reply", "err", err)
	}
}

func (s *Session) say(ctx context.Context, text string) {
	if s.sink == nil || text == "" {
		return
	}
	if err := s.sink.Say(ctx, text); err != nil {
		s.log.Error("Failed to voice out", "err", err)
	}
}
