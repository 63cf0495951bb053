package content

import (
	"fmt"
	"strings"
	"time"
)

// Weather kinds with dedicated banter.
const (
	Sunny  = "sunny"
	Cloudy = "cloudy"
	Rainy  = "rainy"
	Snowy  = "snowy"
)

// WeatherKinds lists the kinds in a stable order.
var WeatherKinds = []string{Sunny, Cloudy, Rainy, Snowy}

const defaultCity = "your area"

var weatherReplies = map[string][]string{
	Sunny: {
		"The sun is shining bright! Perfect weather for taking over the world... or at least finishing your project.",
		"Clear skies and sunshine! Mother Nature is definitely showing off today.",
		"Beautiful sunny day! Time to soak up some vitamin D and productivity.",
		"The sun is out and so should you be! Great weather for getting things done.",
	},
	Cloudy: {
		"Cloudy with a chance of productivity! The weather is keeping things interesting.",
		"Partly cloudy skies, just like my thoughts sometimes. Still a good day for work!",
		"Cloudy weather, but that's no excuse for cloudy thinking. Let's stay sharp!",
		"Overcast skies, but your future is bright! Time to shine through the clouds.",
	},
	Rainy: {
		"Rain, rain, go away! But since it's here, let's make it a cozy indoor productivity day.",
		"The weather is having a moment, but that's perfect for staying inside and getting things done.",
		"Rainy day vibes! Perfect weather for coding, reading, or whatever makes you happy.",
		"The sky is crying, but don't let it dampen your spirits! Indoor activities await.",
	},
	Snowy: {
		"Winter wonderland outside! Time to cozy up and tackle your to-do list.",
		"Snow is falling, and so are your excuses for not being productive!",
		"White Christmas vibes in {month}! Perfect weather for hot cocoa and productivity.",
		"The world is covered in snow, but your goals are crystal clear. Let's get to work!",
	},
}

// Season returns the closing remark for a month.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter is here, so bundle up and stay warm!"
	case time.March, time.April, time.May:
		return "Spring is in the air, new beginnings everywhere!"
	case time.June, time.July, time.August:
		return "Summer vibes are strong, time to enjoy the warmth!"
	default:
		return "Autumn is here, the season of change and beautiful colors!"
	}
}

// Weather describes kind of weather in city with a seasonal remark. An
// empty kind picks one at random; an empty city means "your area".
// There is no forecast source behind this, the kind is the caller's.
func (p *Provider) Weather(kind, city string) Result {
	now := p.now()
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = p.picker.Choose(WeatherKinds)
	}
	city = strings.TrimSpace(city)

	var msg string
	if tpls, ok := weatherReplies[kind]; ok {
		msg = strings.ReplaceAll(p.picker.Choose(tpls), "{month}", now.Month().String())
		if city != "" {
			msg = fmt.Sprintf("Looking at %s: %s", city, msg)
		}
	} else {
		if city == "" {
			city = defaultCity
		}
		msg = fmt.Sprintf("The weather in %s is %s. Mother Nature is keeping us on our toes!", city, kind)
	}
	return ok(msg + " " + Season(now.Month()))
}
