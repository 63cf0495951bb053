package content

import (
	"strings"
	"testing"
	"time"

	"nova/internal/persona"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newProvider(at time.Time) (*Provider, *clock) {
	c := &clock{t: at}
	return New(WithClock(c.now), WithPicker(persona.NewPicker(persona.Default(), fixedRand(0)))), c
}

func TestTimeByPartOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hour int
		want string
	}{
		{7, "Good morning! It's 07:30 AM and a brand new day awaits."},
		{13, "Good afternoon! It's 01:30 PM and you're crushing it."},
		{19, "Good evening! It's 07:30 PM and you've made it through another day."},
		{2, "Good night! It's 02:30 AM, time to rest and recharge."},
	}
	for _, tc := range cases {
		p, _ := newProvider(time.Date(2024, 3, 4, tc.hour, 30, 0, 0, time.Local))
		if got := p.Time(); !got.Success || got.Message != tc.want {
			t.Errorf("hour %d: %+v", tc.hour, got)
		}
	}
}

func TestPartOfDayBoundaries(t *testing.T) {
	t.Parallel()

	cases := map[int]string{4: "night", 5: "morning", 11: "morning", 12: "afternoon", 16: "afternoon", 17: "evening", 20: "evening", 21: "night"}
	for h, want := range cases {
		if got := PartOfDay(h); got != want {
			t.Errorf("PartOfDay(%d) = %q, want %q", h, got, want)
		}
	}
}

func TestDateAndDateTime(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(time.Date(2024, 3, 4, 15, 5, 0, 0, time.Local))

	if got := p.Date().Message; got != "It's Monday, Monday, March 04, 2024. The start of a new week, let's make it count!" {
		t.Fatalf("Date = %q", got)
	}
	if got := p.DateTime().Message; got != "It's Monday, March 04, 2024 at 03:05 PM. Time to check what's on your agenda!" {
		t.Fatalf("DateTime = %q", got)
	}
}

func TestQuoteAndFact(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(time.Now())

	if got := p.Quote().Message; got != "Here's some wisdom for you: 'The only way to do great work is to love what you do.' - Steve Jobs" {
		t.Fatalf("Quote = %q", got)
	}
	if got := p.Fact().Message; !strings.HasPrefix(got, "Here's a fun fact for you: Honey never spoils.") {
		t.Fatalf("Fact = %q", got)
	}
}

func TestWeather(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(time.Date(2024, 12, 10, 9, 0, 0, 0, time.Local))

	got := p.Weather(Snowy, "")
	if !strings.HasPrefix(got.Message, "Winter wonderland outside!") || !strings.HasSuffix(got.Message, "bundle up and stay warm!") {
		t.Fatalf("Weather(snowy) = %q", got.Message)
	}

	got = p.Weather("", "Oslo")
	if !strings.HasPrefix(got.Message, "Looking at Oslo: The sun is shining bright!") {
		t.Fatalf("Weather(random, Oslo) = %q", got.Message)
	}

	got = p.Weather("foggy", "")
	if !strings.HasPrefix(got.Message, "The weather in your area is foggy.") {
		t.Fatalf("Weather(foggy) = %q", got.Message)
	}
}

func TestWeatherFillsMonth(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)}
	p := New(WithClock(c.now), WithPicker(persona.NewPicker(persona.Default(), fixedRand(2))))
	got := p.Weather(Snowy, "").Message
	if !strings.Contains(got, "White Christmas vibes in January!") || strings.Contains(got, "{month}") {
		t.Fatalf("Weather = %q", got)
	}
}

func TestStatusUptime(t *testing.T) {
	t.Parallel()
	p, c := newProvider(time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local))

	c.t = c.t.Add(2*time.Hour + 5*time.Minute)
	if got := p.Status().Message; got != "System status: All systems operational. Running smoothly for 2 hours and 5 minutes." {
		t.Fatalf("Status = %q", got)
	}
}

func TestUptime(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]string{
		0:                          "0 minutes",
		time.Minute:                "1 minute",
		time.Hour:                  "1 hour",
		3 * time.Hour:              "3 hours",
		time.Hour + 30*time.Minute: "1 hour and 30 minutes",
		-5 * time.Second:           "0 minutes",
	}
	for d, want := range cases {
		if got := Uptime(d); got != want {
			t.Errorf("Uptime(%v) = %q, want %q", d, got, want)
		}
	}
}
