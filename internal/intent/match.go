package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize folds raw input into the form patterns are written against:
// NFKC, lower case, inner whitespace collapsed, outer whitespace trimmed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToValidUTF8(raw, "")
	s = norm.NFKC.String(s)
	s = lower.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Resolution is the outcome of matching one utterance. Param is only
// meaningful when HasParam is set.
type Resolution struct {
	Intent   string
	Param    string
	HasParam bool
}

// Matched reports whether the utterance resolved to a catalog intent.
func (r Resolution) Matched() bool { return r.Intent != Unknown }

// Match returns the name of the first intent, in catalog order, with any
// pattern found anywhere in the utterance. Later intents never win over an
// earlier one, however specific their match would be.
func (c *Catalog) Match(utterance string) string {
	return c.Resolve(utterance).Intent
}

// Resolve matches the utterance and extracts the parameter from the same
// match, so the patterns are scanned once.
func (c *Catalog) Resolve(utterance string) Resolution {
	text := Normalize(utterance)
	if text == "" {
		return Resolution{Intent: Unknown}
	}

	for _, in := range c.intents {
		for _, p := range in.Patterns {
			m := p.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			res := Resolution{Intent: in.Name}
			if p.group > 0 {
				res.Param, res.HasParam = cleanParam(m[p.group])
			}
			return res
		}
	}

	return Resolution{Intent: Unknown}
}

// ExtractParameter scans the named intent's patterns in order and returns
// the designated group of the first one that matches.
func (c *Catalog) ExtractParameter(utterance, name string) (string, bool) {
	in, ok := c.Lookup(name)
	if !ok || !in.HasParamRule() {
		return "", false
	}

	text := Normalize(utterance)
	for _, p := range in.Patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.group == 0 {
			return "", false
		}
		return cleanParam(m[p.group])
	}

	return "", false
}

var trailingFiller = []string{
	" please",
	" for me",
	" right now",
	" now",
	" thanks",
	" thank you",
}

// cleanParam trims punctuation and trailing filler words off a capture.
// A capture that is empty afterwards counts as absent.
func cleanParam(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.TrimRight(s, " .,!?;:")
		for _, f := range trailingFiller {
			if strings.HasSuffix(s, f) {
				s = strings.TrimSuffix(s, f)
			}
		}
		s = strings.TrimSpace(s)
		if s == prev {
			break
		}
	}
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if _, filler := fillerOnly[s]; filler {
		return "", false
	}
	return s, s != ""
}

// fillerOnly lists captures that carry no argument on their own, as in
// "search for" or "open please".
var fillerOnly = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "for": {}, "me": {}, "it": {},
	"about": {}, "please": {}, "now": {}, "something": {},
}
