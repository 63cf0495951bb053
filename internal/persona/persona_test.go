package persona

import (
	"strings"
	"testing"
)

// seqRand replays a fixed sequence of indices.
type seqRand struct {
	seq []int
	i   int
}

func (s *seqRand) IntN(n int) int {
	v := s.seq[s.i%len(s.seq)] % n
	s.i++
	return v
}

func TestPickFillsUser(t *testing.T) {
	t.Parallel()

	p := NewPicker(Default(), &seqRand{seq: []int{0}})
	got := p.Pick(Greetings, "Tony")
	want := "Greetings, Tony! Nova at your service, ready to make your day more efficient and slightly more entertaining."
	if got != want {
		t.Fatalf("Pick = %q, want %q", got, want)
	}
	if strings.Contains(got, UserPlaceholder) {
		t.Fatalf("placeholder left in %q", got)
	}
}

func TestPhraserWithoutName(t *testing.T) {
	t.Parallel()

	ph := NewPicker(Default(), &seqRand{seq: []int{0, 3}}).Phraser("")
	if got := ph.Phrase(Greetings); got != "Greetings! Nova at your service, ready to make your day more efficient and slightly more entertaining." {
		t.Fatalf("greeting = %q", got)
	}
	if got := ph.Phrase(Error); got != "Something went sideways. Let me fix this!" {
		t.Fatalf("error = %q", got)
	}
}

func TestPickUsesSource(t *testing.T) {
	t.Parallel()

	set := Set{Error: {"a", "b", "c"}}
	p := NewPicker(set, &seqRand{seq: []int{2, 0, 1}})
	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, p.Pick(Error, "x"))
	}
	if strings.Join(got, "") != "cab" {
		t.Fatalf("picked %v", got)
	}
}

func TestPickUnknownKind(t *testing.T) {
	t.Parallel()

	p := NewPicker(Set{}, nil)
	if got := p.Pick("missing", "x"); got != "" {
		t.Fatalf("Pick(missing) = %q", got)
	}
	if got := p.Choose(nil); got != "" {
		t.Fatalf("Choose(nil) = %q", got)
	}
}

func TestDefaultSetIsComplete(t *testing.T) {
	t.Parallel()

	set := Default()
	for _, k := range []Kind{Greetings, Confirmation, Thinking, Success, Error, Clarification, Unknown, Listening} {
		if len(set[k]) == 0 {
			t.Errorf("kind %q has no templates", k)
		}
	}
}

func TestContainsAndTemplates(t *testing.T) {
	t.Parallel()

	set := Default()
	p := NewPicker(set, NewRand(42))
	for i := 0; i < 50; i++ {
		reply := p.Pick(Unknown, "Sir")
		if !set.Contains(Unknown, "Sir", reply) {
			t.Fatalf("%q is not an unknown template", reply)
		}
	}
	if n := len(set.Templates(Clarification, "Sir")); n != len(set[Clarification]) {
		t.Fatalf("Templates returned %d entries", n)
	}
}

func TestNewRandIsSeeded(t *testing.T) {
	t.Parallel()

	a, b := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("same seed diverged at %d: %d vs %d", i, x, y)
		}
	}
}
