package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nova/internal/dispatch"
	"nova/internal/intent"
	"nova/internal/persona"
	"nova/internal/session"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// startDaemon runs a session over a fresh server and returns the socket path.
func startDaemon(t *testing.T, opts ...Option) string {
	t.Helper()

	d := dispatch.New(intent.MustNew(intent.Default()), persona.NewPicker(persona.Default(), persona.NewRand(1)),
		dispatch.WithUser("Tony"), dispatch.WithLogger(discard()))
	_ = d.Bind(intent.Time, dispatch.HandlerFunc(func(context.Context, dispatch.Request) (dispatch.Reply, error) {
		return dispatch.OK("It is noon."), nil
	}))

	path := filepath.Join(t.TempDir(), "nova.sock")
	srv, err := NewServer(path, append([]Option{WithLogger(discard())}, opts...)...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = session.New(d, srv, nil, session.WithoutGreeting(), session.WithLogger(discard())).Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		srv.Close()
		<-done
	})
	return path
}

func send(t *testing.T, path string, req Request) (Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Send(ctx, path, req)
}

func TestSay(t *testing.T) {
	t.Parallel()
	path := startDaemon(t)

	resp, err := send(t, path, Request{Cmd: CmdSay, Text: "What time is it?"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Intent != intent.Time || resp.Outcome != string(dispatch.Handled) || resp.Text != "It is noon." {
		t.Fatalf("resp = %+v", resp)
	}

	resp, err = send(t, path, Request{Cmd: CmdSay, Text: "blorf"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Intent != intent.Unknown || resp.Outcome != string(dispatch.NoMatch) {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSayBlankIsUnknown(t *testing.T) {
	t.Parallel()
	path := startDaemon(t, WithReplyTimeout(3*time.Second))

	start := time.Now()
	resp, err := send(t, path, Request{Cmd: CmdSay, Text: "   "})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("reply took %s", time.Since(start))
	}
	if resp.Intent != intent.Unknown || resp.Outcome != string(dispatch.NoMatch) ||
		!persona.Default().Contains(persona.Unknown, "Tony", resp.Text) {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestTrigger(t *testing.T) {
	t.Parallel()
	path := startDaemon(t, WithTrigger(func(context.Context) (string, error) {
		return "tell me the time", nil
	}))

	resp, err := send(t, path, Request{Cmd: CmdTrigger})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Intent != intent.Time {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestTriggerNothingHeard(t *testing.T) {
	t.Parallel()
	path := startDaemon(t, WithTrigger(func(context.Context) (string, error) {
		return "", session.ErrNoInput
	}))

	if _, err := send(t, path, Request{Cmd: CmdTrigger}); err == nil || err.Error() != "nothing heard" {
		t.Fatalf("err = %v", err)
	}
}

func TestTriggerFailureHidesCause(t *testing.T) {
	t.Parallel()
	path := startDaemon(t, WithTrigger(func(context.Context) (string, error) {
		return "", errors.New("portaudio: device unavailable")
	}))

	resp, err := send(t, path, Request{Cmd: CmdTrigger})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Outcome != "error" || strings.Contains(resp.Text, "portaudio") ||
		!persona.Default().Contains(persona.Error, "", resp.Text) {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestHoldAndRelease(t *testing.T) {
	t.Parallel()
	path := startDaemon(t, WithHold(func(ctx context.Context, stop <-chan struct{}) (string, error) {
		select {
		case <-stop:
			return "what time is it", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}))

	type result struct {
		resp Response
		err  error
	}
	held := make(chan result, 1)
	go func() {
		resp, err := send(t, path, Request{Cmd: CmdHold})
		held <- result{resp, err}
	}()

	deadline := time.Now().Add(3 * time.Second)
	for {
		_, err := send(t, path, Request{Cmd: CmdRelease})
		if err == nil {
			break
		}
		if err.Error() != "not holding" || time.Now().After(deadline) {
			t.Fatalf("release: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	r := <-held
	if r.err != nil || r.resp.Intent != intent.Time || r.resp.Text != "It is noon." {
		t.Fatalf("hold = %+v, %v", r.resp, r.err)
	}
	if _, err := send(t, path, Request{Cmd: CmdRelease}); err == nil || err.Error() != "not holding" {
		t.Fatalf("second release: %v", err)
	}
}

func TestRejectedRequests(t *testing.T) {
	t.Parallel()
	path := startDaemon(t)

	cases := []struct {
		req  Request
		want string
	}{
		{Request{Cmd: CmdSay}, "say needs text"},
		{Request{Cmd: CmdTrigger}, "trigger is not available"},
		{Request{Cmd: CmdHold}, "hold is not available"},
		{Request{Cmd: CmdRelease}, "not holding"},
		{Request{Cmd: "dance"}, `unknown command "dance"`},
	}
	for _, tc := range cases {
		_, err := send(t, path, tc.req)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%+v: err = %v, want %q", tc.req, err, tc.want)
		}
	}
}

func TestSendWithoutDaemon(t *testing.T) {
	t.Parallel()
	if _, err := send(t, filepath.Join(t.TempDir(), "absent.sock"), Request{Cmd: CmdSay, Text: "hi"}); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestListenAfterClose(t *testing.T) {
	t.Parallel()
	srv, err := NewServer(filepath.Join(t.TempDir(), "c.sock"), WithLogger(discard()))
	if err != nil {
		t.Fatal(err)
	}
	srv.Close()
	if _, err := srv.Listen(context.Background()); err != io.EOF {
		t.Fatalf("err = %v", err)
	}
}
