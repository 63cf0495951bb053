// Package ipc is the local control socket of the Nova daemon. Each
// connection carries one JSON request and gets one JSON response.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"nova/internal/dispatch"
	"nova/internal/persona"
	"nova/internal/session"
)

const (
	// CmdSay answers the given text as if it had been spoken.
	CmdSay = "say"
	// CmdTrigger makes the daemon listen for one utterance.
	CmdTrigger = "trigger"
	// CmdHold starts push-to-talk; the answer comes after CmdRelease.
	CmdHold = "hold"
	// CmdRelease ends the recording started by CmdHold.
	CmdRelease = "release"
)

type Request struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Response struct {
	Intent  string `json:"intent,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TriggerFunc captures one utterance, typically from the microphone.
type TriggerFunc func(ctx context.Context) (string, error)

// HoldFunc captures one utterance until stop is closed.
type HoldFunc func(ctx context.Context, stop <-chan struct{}) (string, error)

type Option func(*Server)

// WithTrigger enables the trigger command.
func WithTrigger(fn TriggerFunc) Option {
	return func(s *Server) { s.trigger = fn }
}

// WithHold enables the hold and release commands.
func WithHold(fn HoldFunc) Option {
	return func(s *Server) { s.hold = fn }
}

// WithPhraser sets where failure replies come from.
func WithPhraser(p persona.Phraser) Option {
	return func(s *Server) { s.phrases = p }
}

// WithReplyTimeout bounds how long a client waits for its answer.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Server) { s.replyTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server accepts control connections and turns them into session input.
type Server struct {
	path         string
	ln           net.Listener
	in           chan session.Input
	done         chan struct{}
	closeOnce    sync.Once
	trigger      TriggerFunc
	hold         HoldFunc
	micMu        sync.Mutex
	holdMu       sync.Mutex
	release      chan struct{}
	phrases      persona.Phraser
	replyTimeout time.Duration
	log          *slog.Logger
}

// NewServer listens on the unix socket at path, replacing a stale one.
func NewServer(path string, opts ...Option) (*Server, error) {
	s := &Server{
		path:         path,
		in:           make(chan session.Input),
		done:         make(chan struct{}),
		replyTimeout: 2 * time.Minute,
		log:          slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.phrases == nil {
		s.phrases = persona.NewPicker(nil, nil).Phraser("")
	}

	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	s.ln = ln

	go s.accept()
	return s, nil
}

func (s *Server) Addr() string { return s.path }

func (s *Server) accept() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("Failed to accept", "err", err)
			continue
		}
		go s.handleConn(conn)
	}
}

// Listen hands the next request to the session. It returns io.EOF once
// the server is closed.
func (s *Server) Listen(ctx context.Context) (session.Input, error) {
	select {
	case <-ctx.Done():
		return session.Input{}, ctx.Err()
	case <-s.done:
		return session.Input{}, io.EOF
	case in := <-s.in:
		return in, nil
	}
}

func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.ln.Close()
		_ = os.Remove(s.path)
	})
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.log.Debug("Bad control request", "err", err)
		writeResponse(conn, Response{Error: "malformed request"})
		return
	}
	s.log.Debug("Control request", "cmd", req.Cmd)

	ctx, cancel := context.WithTimeout(context.Background(), s.replyTimeout)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	text := req.Text
	switch req.Cmd {
	case CmdSay:
		if text == "" {
			writeResponse(conn, Response{Error: "say needs text"})
			return
		}
	case CmdTrigger:
		if s.trigger == nil {
			writeResponse(conn, Response{Error: "trigger is not available"})
			return
		}
		var ok bool
		if text, ok = s.capture(ctx, conn, s.trigger); !ok {
			return
		}
	case CmdHold:
		if s.hold == nil {
			writeResponse(conn, Response{Error: "hold is not available"})
			return
		}
		stop, err := s.startHold()
		if err != nil {
			writeResponse(conn, Response{Error: err.Error()})
			return
		}
		defer s.endHold(stop)
		var ok bool
		if text, ok = s.capture(ctx, conn, func(ctx context.Context) (string, error) {
			return s.hold(ctx, stop)
		}); !ok {
			return
		}
	case CmdRelease:
		if !s.releaseHold() {
			writeResponse(conn, Response{Error: "not holding"})
			return
		}
		writeResponse(conn, Response{Outcome: "released"})
		return
	default:
		s.log.Warn("Unknown command", "cmd", req.Cmd)
		writeResponse(conn, Response{Error: fmt.Sprintf("unknown command %q", req.Cmd)})
		return
	}

	replies := make(chan dispatch.Result, 1)
	in := session.Input{
		Text: text,
		Respond: func(_ context.Context, res dispatch.Result) error {
			replies <- res
			return nil
		},
	}

	select {
	case s.in <- in:
	case <-ctx.Done():
		writeResponse(conn, Response{Error: "daemon busy"})
		return
	}

	select {
	case res := <-replies:
		writeResponse(conn, Response{
			Intent:  res.Intent,
			Outcome: string(res.Outcome),
			Text:    res.Text,
		})
	case <-ctx.Done():
		writeResponse(conn, Response{Error: "ignored"})
	}
}

// capture runs fn with the microphone to itself. On failure it answers
// the client and reports false; the cause is only logged.
func (s *Server) capture(ctx context.Context, w io.Writer, fn TriggerFunc) (string, bool) {
	s.micMu.Lock()
	text, err := fn(ctx)
	s.micMu.Unlock()

	switch {
	case err == nil:
		return text, true
	case errors.Is(err, session.ErrNoInput):
		writeResponse(w, Response{Error: "nothing heard"})
	default:
		s.log.Error("Capture failed", "err", err)
		writeResponse(w, Response{Outcome: "error", Text: s.phrases.Phrase(persona.Error)})
	}
	return "", false
}

func (s *Server) startHold() (chan struct{}, error) {
	s.holdMu.Lock()
	defer s.holdMu.Unlock()
	if s.release != nil {
		return nil, errors.New("already holding")
	}
	s.release = make(chan struct{})
	return s.release, nil
}

func (s *Server) releaseHold() bool {
	s.holdMu.Lock()
	defer s.holdMu.Unlock()
	if s.release == nil {
		return false
	}
	close(s.release)
	s.release = nil
	return true
}

// endHold forgets stop if it is still the active hold.
func (s *Server) endHold(stop chan struct{}) {
	s.holdMu.Lock()
	defer s.holdMu.Unlock()
	if s.release == stop {
		s.release = nil
	}
}

func writeResponse(w io.Writer, resp Response) {
	_ = json.NewEncoder(w).Encode(resp)
}

// Send delivers req to the daemon at path and waits for its response.
func Send(ctx context.Context, path string, req Request) (Response, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("send: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("read reply: %w", err)
	}
	if resp.Error != "" {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}
