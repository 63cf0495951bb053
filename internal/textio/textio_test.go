package textio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"nova/internal/session"
)

func TestSourceLines(t *testing.T) {
	t.Parallel()
	var prompts bytes.Buffer
	src := NewSource(strings.NewReader("what time is it\n\n  \nopen notepad\n"), &prompts, "> ")
	ctx := context.Background()

	want := []struct {
		text string
		err  error
	}{
		{"what time is it", nil},
		{"", session.ErrNoInput},
		{"", session.ErrNoInput},
		{"open notepad", nil},
		{"", io.EOF},
	}
	for i, w := range want {
		in, err := src.Listen(ctx)
		if !errors.Is(err, w.err) || in.Text != w.text {
			t.Fatalf("Listen #%d = %q, %v", i, in.Text, err)
		}
	}
	if got := strings.Count(prompts.String(), "> "); got != len(want) {
		t.Fatalf("prompted %d times", got)
	}
}

func TestSourceCancel(t *testing.T) {
	t.Parallel()
	r, w := io.Pipe()
	defer w.Close()
	src := NewSource(r, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Listen(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestSink(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := NewSink(&buf, "Nova: ")

	_ = s.Say(context.Background(), "Hello")
	_ = s.Say(context.Background(), "Bye")
	if buf.String() != "Nova: Hello\nNova: Bye\n" {
		t.Fatalf("wrote %q", buf.String())
	}
}
