// Package dispatch resolves an utterance to an intent, runs the handler
// bound to it and turns the outcome into a reply for the user.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"nova/internal/intent"
	"nova/internal/persona"
)

// Request is what a handler receives for one utterance.
type Request struct {
	Intent    string
	Utterance string // normalized
	Param     string
	HasParam  bool
	User      string
}

// Reply is a handler's answer. Message is user-facing text; it is only
// spoken when Success is set.
type Reply struct {
	Success bool
	Message string
}

// OK is shorthand for a successful reply.
func OK(format string, args ...any) Reply {
	return Reply{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Failed is shorthand for a failed reply. The message is logged only.
func Failed(format string, args ...any) Reply {
	return Reply{Message: fmt.Sprintf(format, args...)}
}

type Handler interface {
	Handle(ctx context.Context, req Request) (Reply, error)
}

type HandlerFunc func(ctx context.Context, req Request) (Reply, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) (Reply, error) {
	return f(ctx, req)
}

// Outcome classifies how an utterance was answered.
type Outcome string

const (
	Handled          Outcome = "handled"
	NoMatch          Outcome = "no_match"
	MissingParameter Outcome = "missing_parameter"
	HandlerFailure   Outcome = "handler_failure"
	Unbound          Outcome = "unbound"
)

// Result is the outcome of one Respond call.
type Result struct {
	Intent   string
	Param    string
	HasParam bool
	Outcome  Outcome
	Text     string
}

type binding struct {
	handler  Handler
	thinking bool
}

// BindOption tunes a single binding.
type BindOption func(*binding)

// WithThinking announces a "thinking" phrase before the handler runs.
// Meant for handlers that go to the network or spawn processes.
func WithThinking() BindOption {
	return func(b *binding) { b.thinking = true }
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithUser(name string) Option {
	return func(d *Dispatcher) { d.user = name }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithThinkingNotifier receives thinking phrases for slow handlers.
func WithThinkingNotifier(fn func(text string)) Option {
	return func(d *Dispatcher) { d.notify = fn }
}

// Dispatcher owns one catalog and one personality. Handlers are bound
// before the first Respond; after that it is safe for concurrent use.
type Dispatcher struct {
	catalog  *intent.Catalog
	persona  *persona.Picker
	handlers map[string]binding
	user     string
	log      *slog.Logger
	notify   func(string)

	started  time.Time
	commands atomic.Int64
}

func New(catalog *intent.Catalog, picker *persona.Picker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog:  catalog,
		persona:  picker,
		handlers: make(map[string]binding),
		user:     "Sir",
		log:      slog.Default(),
		started:  time.Now(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Bind attaches a handler to a catalog intent. Binding again replaces the
// previous handler.
func (d *Dispatcher) Bind(name string, h Handler, opts ...BindOption) error {
	if _, ok := d.catalog.Lookup(name); !ok {
		return fmt.Errorf("bind %q: not in catalog", name)
	}
	if h == nil {
		return fmt.Errorf("bind %q: nil handler", name)
	}
	b := binding{handler: h}
	for _, o := range opts {
		o(&b)
	}
	d.handlers[name] = b
	return nil
}

// Bound reports whether an intent has a handler.
func (d *Dispatcher) Bound(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

func (d *Dispatcher) Catalog() *intent.Catalog { return d.catalog }

func (d *Dispatcher) User() string { return d.user }

// Match returns the intent name for an utterance, or intent.Unknown.
func (d *Dispatcher) Match(utterance string) string {
	return d.catalog.Match(utterance)
}

// ExtractParameter returns the parameter of the named intent's first
// matching pattern.
func (d *Dispatcher) ExtractParameter(utterance, name string) (string, bool) {
	return d.catalog.ExtractParameter(utterance, name)
}

// Greeting picks an opening line.
func (d *Dispatcher) Greeting() string {
	return d.persona.Pick(persona.Greetings, d.user)
}

// Phrase picks a template of any kind for the configured user.
func (d *Dispatcher) Phrase(kind persona.Kind) string {
	return d.persona.Pick(kind, d.user)
}

// Respond answers one utterance. It never fails: no match, a missing
// parameter and a failing handler all come back as personality replies.
func (d *Dispatcher) Respond(ctx context.Context, utterance string) Result {
	d.commands.Add(1)

	text := intent.Normalize(utterance)
	res := d.catalog.Resolve(text)
	out := Result{Intent: res.Intent, Param: res.Param, HasParam: res.HasParam}

	log := d.log.With("intent", res.Intent)
	log.Debug("Resolved", "text", text, "param", res.Param)

	if !res.Matched() {
		out.Outcome = NoMatch
		out.Text = d.persona.Pick(persona.Unknown, d.user)
		return out
	}

	in, _ := d.catalog.Lookup(res.Intent)
	if in.RequiresParam && !res.HasParam {
		out.Outcome = MissingParameter
		out.Text = d.persona.Pick(persona.Clarification, d.user)
		return out
	}

	b, ok := d.handlers[res.Intent]
	if !ok {
		log.Warn("No handler bound")
		out.Outcome = Unbound
		out.Text = d.persona.Pick(persona.Unknown, d.user)
		return out
	}

	if b.thinking && d.notify != nil {
		d.notify(d.persona.Pick(persona.Thinking, d.user))
	}

	reply, err := d.invoke(ctx, b.handler, Request{
		Intent:    res.Intent,
		Utterance: text,
		Param:     res.Param,
		HasParam:  res.HasParam,
		User:      d.user,
	})
	if err != nil || !reply.Success {
		log.Error("Handler failed", "err", err, "detail", reply.Message)
		out.Outcome = HandlerFailure
		out.Text = d.persona.Pick(persona.Error, d.user)
		return out
	}

	out.Outcome = Handled
	out.Text = reply.Message
	return out
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, req Request) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, req)
}

// Stats summarizes the session so far.
type Stats struct {
	Commands int64
	Started  time.Time
	Uptime   time.Duration
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Commands: d.commands.Load(),
		Started:  d.started,
		Uptime:   time.Since(d.started),
	}
}
