package session

import (
	"strings"

	"nova/internal/intent"
)

const trimSet = " ,.!?;:-\"'`~"

// WakeDetector finds a wake phrase near the start of an utterance.
type WakeDetector struct {
	Phrases []string
	// Window is how many leading words may precede the phrase ("ok nova",
	// "hey nova"). Zero means the phrase must open the utterance.
	Window int
}

func NewWakeDetector(phrases []string, window int) *WakeDetector {
	ps := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = intent.Normalize(p); p != "" {
			ps = append(ps, p)
		}
	}
	return &WakeDetector{Phrases: ps, Window: window}
}

// Detect reports whether a wake phrase was heard and returns the command
// that follows it. "nova, open notepad" gives (true, "open notepad").
func (w *WakeDetector) Detect(text string) (bool, string) {
	words := strings.Fields(intent.Normalize(text))
	if len(words) == 0 {
		return false, ""
	}
	tokens := make([]string, len(words))
	for i, wd := range words {
		tokens[i] = strings.Trim(wd, trimSet)
	}

	for _, wp := range w.Phrases {
		pw := strings.Fields(wp)
		last := min(w.Window, len(tokens)-len(pw))
		for i := 0; i <= last; i++ {
			if !equalWords(tokens[i:i+len(pw)], pw) {
				continue
			}
			rest := strings.Join(words[i+len(pw):], " ")
			return true, strings.Trim(rest, trimSet)
		}
	}
	return false, ""
}

func equalWords(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
