package content

import (
	"fmt"
	"time"
)

var statusReplies = []string{
	"System status: All systems operational. Running smoothly for %s.",
	"Status check: Everything is working perfectly. %s of flawless operation.",
	"System report: All green lights. %s of peak performance.",
	"Status: Optimal. %s of uninterrupted service and counting.",
}

// Status reports how long the provider has been up.
func (p *Provider) Status() Result {
	return ok(fmt.Sprintf(p.picker.Choose(statusReplies), Uptime(p.now().Sub(p.started))))
}

// Uptime renders a duration for speech: "2 hours and 5 minutes".
func Uptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)

	switch {
	case h == 0:
		return plural(m, "minute")
	case m == 0:
		return plural(h, "hour")
	default:
		return plural(h, "hour") + " and " + plural(m, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
