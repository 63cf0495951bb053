// Package skills implements a handler for every built-in intent on top of
// the system, web and content collaborators.
package skills

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nova/internal/content"
	"nova/internal/dispatch"
	"nova/internal/intent"
	"nova/internal/persona"
	"nova/internal/system"
	"nova/internal/web"
)

// NewsCount is how many headlines are read out.
const NewsCount = 3

type Option func(*Skills)

func WithSystem(s System) Option {
	return func(k *Skills) { k.sys = s }
}

func WithWeb(w Web) Option {
	return func(k *Skills) { k.web = w }
}

func WithContent(c Content) Option {
	return func(k *Skills) { k.content = c }
}

// Skills holds the collaborators. A nil collaborator leaves its intents
// unbound.
type Skills struct {
	persona *persona.Picker
	sys     System
	web     Web
	content Content
}

func New(p *persona.Picker, opts ...Option) *Skills {
	k := &Skills{persona: p}
	for _, o := range opts {
		o(k)
	}
	return k
}

type entry struct {
	intent string
	h      dispatch.HandlerFunc
	slow   bool
}

func (k *Skills) entries() []entry {
	es := []entry{
		{intent: intent.Greeting, h: k.greeting},
		{intent: intent.Thanks, h: k.thanks},
		{intent: intent.Help, h: k.help},
		{intent: intent.Exit, h: k.exit},
	}
	if k.content != nil {
		es = append(es,
			entry{intent: intent.Time, h: k.fromContent(k.content.Time)},
			entry{intent: intent.Date, h: k.fromContent(k.content.Date)},
			entry{intent: intent.DateTime, h: k.fromContent(k.content.DateTime)},
			entry{intent: intent.Quote, h: k.fromContent(k.content.Quote)},
			entry{intent: intent.Fact, h: k.fromContent(k.content.Fact)},
			entry{intent: intent.Status, h: k.fromContent(k.content.Status)},
			entry{intent: intent.Weather, h: k.weather},
		)
	}
	if k.sys != nil {
		es = append(es,
			entry{intent: intent.OpenApp, h: k.openApp, slow: true},
			entry{intent: intent.Screenshot, h: k.screenshot, slow: true},
			entry{intent: intent.Volume, h: k.volume},
			entry{intent: intent.Shutdown, h: k.shutdown},
			entry{intent: intent.Restart, h: k.restart},
			entry{intent: intent.Lock, h: k.lock, slow: true},
		)
	}
	if k.web != nil {
		es = append(es,
			entry{intent: intent.OpenWebsite, h: k.openWebsite, slow: true},
			entry{intent: intent.YouTube, h: k.youtube, slow: true},
			entry{intent: intent.WebSearch, h: k.webSearch, slow: true},
			entry{intent: intent.Wikipedia, h: k.wikipedia, slow: true},
			entry{intent: intent.News, h: k.news, slow: true},
		)
	}
	return es
}

// Register binds every handler whose collaborators are present.
func (k *Skills) Register(d *dispatch.Dispatcher) error {
	for _, e := range k.entries() {
		var opts []dispatch.BindOption
		if e.slow {
			opts = append(opts, dispatch.WithThinking())
		}
		if err := d.Bind(e.intent, e.h, opts...); err != nil {
			return fmt.Errorf("register skills: %w", err)
		}
	}
	return nil
}

func (k *Skills) fromContent(fn func() content.Result) dispatch.HandlerFunc {
	return func(context.Context, dispatch.Request) (dispatch.Reply, error) {
		r := fn()
		return dispatch.Reply{Success: r.Success, Message: r.Message}, nil
	}
}

func (k *Skills) weather(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	r := k.content.Weather("", req.Param)
	return dispatch.Reply{Success: r.Success, Message: r.Message}, nil
}

func (k *Skills) greeting(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	return dispatch.OK("%s", k.persona.Pick(persona.Greetings, req.User)), nil
}

func (k *Skills) thanks(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	return dispatch.OK("You're welcome, %s! I'm here to help.", req.User), nil
}

func (k *Skills) exit(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	return dispatch.OK("Goodbye, %s! It's been a pleasure serving you. Nova signing off!", req.User), nil
}

func (k *Skills) help(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	return dispatch.OK("%s", HelpText(req.User)), nil
}

// HelpText lists what Nova understands.
func HelpText(user string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I can do for you, %s:\n", user)
	for _, sec := range helpSections {
		b.WriteString("\n" + sec.title + "\n")
		for _, line := range sec.lines {
			b.WriteString("  - " + line + "\n")
		}
	}
	b.WriteString("\nJust say \"Nova\" followed by your command, and I'll handle the rest!")
	return b.String()
}

var helpSections = []struct {
	title string
	lines []string
}{
	{"Time & Date", []string{
		`"What time is it?" - current time`,
		`"What's the date?" - current date`,
		`"Current date and time" - both`,
	}},
	{"Weather & Information", []string{
		`"What's the weather like?" - weather, optionally "in <city>"`,
		`"Tell me about <topic>" - Wikipedia`,
		`"Search for <query>" - web search`,
		`"YouTube <query>" - search YouTube`,
		`"Go to <site>" - open a website`,
	}},
	{"System Control", []string{
		`"Open <app>" - launch applications`,
		`"Take a screenshot" - capture the screen`,
		`"Volume up/down/mute" or "set volume to 40" - audio`,
		`"Lock computer" - secure your system`,
	}},
	{"Entertainment", []string{
		`"Give me a quote" - motivational quotes`,
		`"Tell me a fact" - interesting facts`,
		`"What's in the news?" - latest headlines`,
		`"How are you?" - my status`,
	}},
}

func (k *Skills) openApp(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	err := k.sys.OpenApp(ctx, req.Param)
	if err == nil {
		return dispatch.OK("Opening %s for you, %s!", req.Param, req.User), nil
	}
	// "open github" means the website when no such program exists.
	if errors.Is(err, system.ErrAppNotFound) && k.web != nil && web.IsKnownSite(req.Param) {
		return k.openWebsite(ctx, req)
	}
	if errors.Is(err, system.ErrAppNotFound) {
		return dispatch.Failed("couldn't find or open %s", req.Param), nil
	}
	return dispatch.Reply{}, err
}

func (k *Skills) screenshot(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	path, err := k.sys.Screenshot(ctx)
	if err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("%s Screenshot saved to %s.", k.persona.Pick(persona.Success, req.User), path), nil
}

func (k *Skills) volume(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	switch p := req.Param; p {
	case "up":
		if _, err := k.sys.AdjustVolume(ctx, system.VolumeStep); err != nil {
			return dispatch.Reply{}, err
		}
		return dispatch.OK("Volume increased, %s! Let's make some noise!", req.User), nil
	case "down":
		if _, err := k.sys.AdjustVolume(ctx, -system.VolumeStep); err != nil {
			return dispatch.Reply{}, err
		}
		return dispatch.OK("Volume decreased, %s. Keeping it down to earth!", req.User), nil
	case "mute":
		if err := k.sys.SetMute(ctx, true); err != nil {
			return dispatch.Reply{}, err
		}
		return dispatch.OK("Audio muted, %s. Silence is golden!", req.User), nil
	case "unmute":
		if err := k.sys.SetMute(ctx, false); err != nil {
			return dispatch.Reply{}, err
		}
		return dispatch.OK("Audio unmuted, %s. Welcome back to the sound!", req.User), nil
	default:
		level, err := strconv.Atoi(p)
		if err != nil {
			return dispatch.Failed("unrecognized volume %q", p), nil
		}
		level = min(max(level, 0), 100)
		if err := k.sys.SetVolume(ctx, level); err != nil {
			return dispatch.Reply{}, err
		}
		return dispatch.OK("Volume set to %d%%, %s! Perfect level for productivity.", level, req.User), nil
	}
}

func (k *Skills) shutdown(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if !k.sys.PowerActionsAllowed() {
		return dispatch.OK("Shutdown command received, %s. Are you sure you want me to shut down your computer? This action cannot be undone.", req.User), nil
	}
	if err := k.sys.Shutdown(ctx); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("%s Shutting down now. See you on the other side!", k.persona.Pick(persona.Confirmation, req.User)), nil
}

func (k *Skills) restart(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if !k.sys.PowerActionsAllowed() {
		return dispatch.OK("Restart command received, %s. Are you sure you want me to restart your computer? This will close all applications.", req.User), nil
	}
	if err := k.sys.Restart(ctx); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("%s Restarting now. Back in a moment!", k.persona.Pick(persona.Confirmation, req.User)), nil
}

func (k *Skills) lock(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if err := k.sys.Lock(ctx); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("Computer locked, %s! Your digital fortress is secure.", req.User), nil
}

func (k *Skills) openWebsite(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if _, err := k.web.OpenWebsite(ctx, req.Param); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("Opening %s in your browser, %s!", req.Param, req.User), nil
}

func (k *Skills) youtube(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if _, err := k.web.YouTube(ctx, req.Param); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("Opened YouTube search for '%s' in your browser", req.Param), nil
}

func (k *Skills) webSearch(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	if _, err := k.web.Search(ctx, req.Param); err != nil {
		return dispatch.Reply{}, err
	}
	return dispatch.OK("Searching the web for '%s', %s!", req.Param, req.User), nil
}

func (k *Skills) wikipedia(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	a, err := k.web.Lookup(ctx, req.Param)
	switch {
	case errors.Is(err, web.ErrNotFound):
		return dispatch.OK("No Wikipedia articles found for '%s', %s. Maybe try different words?", req.Param, req.User), nil
	case err != nil:
		return dispatch.Reply{}, err
	case a.HasSummary():
		return dispatch.OK("Found Wikipedia article: %s. Here's what I found: %s", a.Title, a.Summary), nil
	default:
		s := a.Suggestions
		if len(s) > 3 {
			s = s[:3]
		}
		return dispatch.OK("No exact match found for '%s'. Try one of these: %s", req.Param, strings.Join(s, ", ")), nil
	}
}

func (k *Skills) news(_ context.Context, req dispatch.Request) (dispatch.Reply, error) {
	list, category := k.web.Headlines(req.Param, NewsCount)
	if len(list) == 0 {
		return dispatch.Failed("no %s headlines", category), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the latest %s news headlines:", category)
	for i, h := range list {
		fmt.Fprintf(&b, "\n%d. %s", i+1, h)
	}
	return dispatch.OK("%s", b.String()), nil
}
