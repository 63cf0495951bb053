// Package persona holds Nova's reply templates and picks among them.
package persona

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Kind names a group of templates.
type Kind string

const (
	Greetings     Kind = "greetings"
	Confirmation  Kind = "confirmation"
	Thinking      Kind = "thinking"
	Success       Kind = "success"
	Error         Kind = "error"
	Clarification Kind = "clarification"
	Unknown       Kind = "unknown"
	Listening     Kind = "listening"
)

// UserPlaceholder is replaced with the user's name when a template is filled.
const UserPlaceholder = "{user}"

// Set maps a kind to its templates. A Set is read-only once built.
type Set map[Kind][]string

// Default is the built-in personality.
func Default() Set {
	return Set{
		Greetings: {
			"Greetings, {user}! Nova at your service, ready to make your day more efficient and slightly more entertaining.",
			"Hello there, {user}! Nova here, your AI companion for all things digital and delightful.",
			"Good day, {user}! Nova is online and ready to assist with your every whim and command.",
			"Greetings, {user}! Nova is here to turn your productivity up to eleven and add a dash of personality.",
			"Hello, {user}! Nova is ready to be your digital sidekick. What shall we accomplish today?",
		},
		Confirmation: {
			"Consider it done, {user}!",
			"On it, {user}!",
			"Roger that, {user}!",
			"Affirmative, {user}!",
			"You got it, {user}!",
		},
		Thinking: {
			"Processing your request with the speed of thought...",
			"Let me consult my digital brain...",
			"Analyzing the situation...",
			"Computing the best approach...",
			"Working my AI magic...",
		},
		Success: {
			"Mission accomplished, {user}!",
			"Task completed successfully!",
			"Done and done, {user}!",
			"Successfully executed, {user}!",
			"All systems green, {user}!",
		},
		Error: {
			"Well, that didn't go as planned. Let me try a different approach.",
			"Houston, we have a problem. But don't worry, I'm on it!",
			"Error detected, but I'm not giving up that easily!",
			"Something went sideways, {user}. Let me fix this!",
			"Technical difficulties, but I'm troubleshooting as we speak!",
		},
		Clarification: {
			"I need a bit more clarity on that, {user}. Could you rephrase?",
			"Hmm, that's a bit fuzzy. Mind being more specific?",
			"I'm not quite catching your drift, {user}. Can you elaborate?",
			"That command needs some fine-tuning. What exactly did you have in mind?",
			"I'm getting mixed signals here. Could you clarify?",
		},
		Unknown: {
			"That's a new one on me, {user}. I'm still learning, you know!",
			"Interesting request, but I'm not quite sure how to handle that yet.",
			"You're stretching my capabilities, {user}. Let me think about this...",
			"That's beyond my current skill set, but I'm always expanding my knowledge!",
			"I'm stumped, {user}. Maybe try rephrasing that?",
		},
		Listening: {
			"Yes, {user}? I'm listening.",
			"I'm all ears, {user}.",
			"Go ahead, {user}.",
		},
	}
}

// Fill substitutes the user's name into a template. Without a name the
// vocative ", {user}" is dropped.
func Fill(tpl, user string) string {
	if user == "" {
		tpl = strings.ReplaceAll(tpl, ", "+UserPlaceholder, "")
	}
	return strings.ReplaceAll(tpl, UserPlaceholder, user)
}

// Templates returns the filled templates of a kind, in declaration order.
// Tests use it to assert that a reply is one of the expected phrases.
func (s Set) Templates(kind Kind, user string) []string {
	tpls := s[kind]
	out := make([]string, len(tpls))
	for i, t := range tpls {
		out[i] = Fill(t, user)
	}
	return out
}

// Contains reports whether text is one of the filled templates of kind.
func (s Set) Contains(kind Kind, user, text string) bool {
	for _, t := range s[kind] {
		if Fill(t, user) == text {
			return true
		}
	}
	return false
}

// Rand is the random source used for template selection.
type Rand interface {
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewRand returns a goroutine-safe PCG source. A zero seed seeds from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Picker selects a template uniformly at random.
type Picker struct {
	set  Set
	rand Rand
}

func NewPicker(set Set, r Rand) *Picker {
	if set == nil {
		set = Default()
	}
	if r == nil {
		r = NewRand(0)
	}
	return &Picker{set: set, rand: r}
}

// Pick returns a random template of kind with the user's name filled in.
// An empty kind yields an empty string.
func (p *Picker) Pick(kind Kind, user string) string {
	tpls := p.set[kind]
	if len(tpls) == 0 {
		return ""
	}
	return Fill(tpls[p.rand.IntN(len(tpls))], user)
}

// Choose picks uniformly from items using the picker's source.
func (p *Picker) Choose(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[p.rand.IntN(len(items))]
}

// Phraser binds the picker to a user name.
func (p *Picker) Phraser(user string) Phraser {
	return boundPicker{p: p, user: user}
}

// Phraser yields a filled template of the given kind.
type Phraser interface {
	Phrase(kind Kind) string
}

type boundPicker struct {
	p    *Picker
	user string
}

func (b boundPicker) Phrase(kind Kind) string { return b.p.Pick(kind, b.user) }
