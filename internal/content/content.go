// Package content produces the canned answers Nova gives without touching
// the OS or the network: clock readings, quotes, facts, weather banter and
// a status line.
package content

import (
	"fmt"
	"strings"
	"time"

	"nova/internal/persona"
)

const (
	TimeLayout     = "03:04 PM"
	DateLayout     = "Monday, January 02, 2006"
	DateTimeLayout = DateLayout + " at " + TimeLayout
)

// Result is a content answer. Message is ready to be spoken.
type Result struct {
	Success bool
	Message string
}

func ok(msg string) Result { return Result{Success: true, Message: msg} }

type Option func(*Provider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithPicker shares the reply picker so one seed drives every choice.
func WithPicker(pk *persona.Picker) Option {
	return func(p *Provider) { p.picker = pk }
}

type Provider struct {
	now     func() time.Time
	picker  *persona.Picker
	started time.Time
}

func New(opts ...Option) *Provider {
	p := &Provider{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	if p.picker == nil {
		p.picker = persona.NewPicker(persona.Default(), persona.NewRand(0))
	}
	p.started = p.now()
	return p
}

// PartOfDay buckets an hour the way greetings do: morning 5-11,
// afternoon 12-16, evening 17-20, night otherwise.
func PartOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

var timeReplies = map[string][]string{
	"morning": {
		"Good morning! It's {time} and a brand new day awaits.",
		"Rise and shine! The clock shows {time} and the world is your oyster.",
		"Morning has broken at {time}. Time to conquer the day!",
		"Good morning! It's {time}, perfect time for coffee and coding.",
		"The sun is up and it's {time}. Ready to make today amazing?",
	},
	"afternoon": {
		"Good afternoon! It's {time} and you're crushing it.",
		"Afternoon vibes at {time}. How's your day going?",
		"It's {time} in the afternoon. Time for a productivity boost!",
		"Good afternoon! {time} and you're still going strong.",
		"Afternoon check-in at {time}. Need a break or ready to tackle more?",
	},
	"evening": {
		"Good evening! It's {time} and you've made it through another day.",
		"Evening time at {time}. Time to wind down and reflect.",
		"Good evening! {time}, perfect time to review today's achievements.",
		"It's {time} in the evening. How did your day go?",
		"Evening check at {time}. Ready to plan tomorrow's adventures?",
	},
	"night": {
		"Good night! It's {time}, time to rest and recharge.",
		"Late night at {time}. Still burning the midnight oil?",
		"It's {time} at night. Don't forget to get some sleep!",
		"Night time at {time}. Sweet dreams await!",
		"Late night check at {time}. Remember, even superheroes need rest!",
	},
}

func (p *Provider) Time() Result {
	now := p.now()
	tpl := p.picker.Choose(timeReplies[PartOfDay(now.Hour())])
	return ok(strings.ReplaceAll(tpl, "{time}", now.Format(TimeLayout)))
}

var dayReplies = map[time.Weekday]string{
	time.Monday:    "It's Monday, %s. The start of a new week, let's make it count!",
	time.Tuesday:   "Tuesday, %s. We're getting into the groove of the week!",
	time.Wednesday: "Wednesday, %s. Hump day! We're over the hump and cruising!",
	time.Thursday:  "Thursday, %s. Almost there! The weekend is in sight!",
	time.Friday:    "Friday, %s. TGIF! Time to finish strong and enjoy the weekend!",
	time.Saturday:  "Saturday, %s. Weekend vibes! Time to relax and recharge!",
	time.Sunday:    "Sunday, %s. Day of rest and preparation for the week ahead!",
}

func (p *Provider) Date() Result {
	now := p.now()
	return ok(fmt.Sprintf(dayReplies[now.Weekday()], now.Format(DateLayout)))
}

var dateTimeReplies = []string{
	"It's %s. Time to check what's on your agenda!",
	"Current time and date: %s. The future is now!",
	"Right now it's %s. Perfect timing for whatever you have planned!",
	"The clock shows %s. Time waits for no one, so let's make the most of it!",
}

func (p *Provider) DateTime() Result {
	return ok(fmt.Sprintf(p.picker.Choose(dateTimeReplies), p.now().Format(DateTimeLayout)))
}

type quote struct {
	text, author string
}

var quotes = []quote{
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Innovation distinguishes between a leader and a follower.", "Steve Jobs"},
	{"Stay hungry, stay foolish.", "Steve Jobs"},
	{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
	{"Success is not final, failure is not fatal: it is the courage to continue that counts.", "Winston Churchill"},
	{"The best way to predict the future is to invent it.", "Alan Kay"},
	{"Code is like humor. When you have to explain it, it's bad.", "Cory House"},
	{"The computer was born to solve problems that did not exist before.", "Bill Gates"},
}

var quoteIntros = []string{
	"Here's some wisdom for you:",
	"Let me share this thought:",
	"Food for thought:",
	"Consider this:",
}

func (p *Provider) Quote() Result {
	q := quotes[p.rand.IntN(len(quotes))]
	return ok(fmt.Sprintf("%s '%s' - %s", p.picker.Choose(quoteIntros), q.text, q.author))
}

var facts = []string{
	"Honey never spoils. Archaeologists have found pots of honey in ancient Egyptian tombs that are over 3,000 years old and still perfectly edible.",
	"A day on Venus is longer than its year. Venus takes 243 Earth days to rotate on its axis but only 225 Earth days to orbit the Sun.",
	"The shortest war in history was between Britain and Zanzibar on August 27, 1896. Zanzibar surrendered after just 38 minutes.",
	"Bananas are berries, but strawberries aren't. In botanical terms, a berry is a fleshy fruit produced from a single ovary.",
	"The Great Wall of China is not visible from space with the naked eye, despite the popular myth.",
	"A group of flamingos is called a 'flamboyance'.",
	"The average person spends 6 months of their lifetime waiting for red lights to turn green.",
	"Cows have best friends and get stressed when separated from them.",
	"The first oranges weren't orange. The original oranges from Southeast Asia were actually green.",
	"A day on Mars is only 37 minutes longer than a day on Earth.",
}

var factIntros = []string{
	"Here's a fun fact for you:",
	"Did you know?",
	"Random fact of the day:",
	"Here's something interesting:",
}

func (p *Provider) Fact() Result {
	return ok(p.picker.Choose(factIntros) + " " + p.picker.Choose(facts))
}
