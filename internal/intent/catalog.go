// Package intent holds the static intent catalog and the ordered regular
// expression matcher that resolves an utterance to exactly one intent.
package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Unknown is the intent name reported when nothing in the catalog matches.
const Unknown = "unknown"

// PatternDef declares one recognition pattern. Group is the capture group
// that carries the intent's parameter when this pattern matches; 0 means the
// pattern contributes no parameter.
type PatternDef struct {
	Expr  string
	Group int
}

// Definition is the source form of an intent, before compilation.
type Definition struct {
	Name          string
	Patterns      []PatternDef
	RequiresParam bool
}

// Pattern is a compiled PatternDef.
type Pattern struct {
	re    *regexp.Regexp
	group int
}

func (p Pattern) String() string { return p.re.String() }

// Group returns the parameter capture group of the pattern, 0 if none.
func (p Pattern) Group() int { return p.group }

// Intent is a compiled catalog entry.
type Intent struct {
	Name          string
	Patterns      []Pattern
	RequiresParam bool
}

// HasParamRule reports whether any of the intent's patterns yields a parameter.
func (in Intent) HasParamRule() bool {
	for _, p := range in.Patterns {
		if p.group > 0 {
			return true
		}
	}
	return false
}

// Catalog is an immutable, ordered list of intents. Order is precedence:
// the first intent with any matching pattern wins.
type Catalog struct {
	intents []Intent
	index   map[string]int
}

var (
	ErrEmptyName     = errors.New("intent name is empty")
	ErrDuplicateName = errors.New("duplicate intent name")
	ErrNoPatterns    = errors.New("intent has no patterns")
	ErrBadGroup      = errors.New("capture group out of range")
	ErrNoParamRule   = errors.New("intent requires a parameter but no pattern captures one")
)

// New compiles defs into a Catalog. Any malformed definition is an error;
// callers are expected to treat it as fatal at startup.
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		intents: make([]Intent, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
	}

	for i, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("definition %d: %w", i, ErrEmptyName)
		}
		if name == Unknown {
			return nil, fmt.Errorf("intent %q: name is reserved", name)
		}
		if _, ok := c.index[name]; ok {
			return nil, fmt.Errorf("intent %q: %w", name, ErrDuplicateName)
		}
		if len(def.Patterns) == 0 {
			return nil, fmt.Errorf("intent %q: %w", name, ErrNoPatterns)
		}

		in := Intent{
			Name:          name,
			Patterns:      make([]Pattern, 0, len(def.Patterns)),
			RequiresParam: def.RequiresParam,
		}
		for j, pd := range def.Patterns {
			re, err := regexp.Compile(pd.Expr)
			if err != nil {
				return nil, fmt.Errorf("intent %q pattern %d: %w", name, j, err)
			}
			if pd.Group < 0 || pd.Group > re.NumSubexp() {
				return nil, fmt.Errorf("intent %q pattern %d: group %d of %d: %w",
					name, j, pd.Group, re.NumSubexp(), ErrBadGroup)
			}
			in.Patterns = append(in.Patterns, Pattern{re: re, group: pd.Group})
		}
		if in.RequiresParam && !in.HasParamRule() {
			return nil, fmt.Errorf("intent %q: %w", name, ErrNoParamRule)
		}

		c.index[name] = len(c.intents)
		c.intents = append(c.intents, in)
	}

	return c, nil
}

// MustNew is New for built-in tables that are known to be valid.
func MustNew(defs []Definition) *Catalog {
	c, err := New(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the intents in precedence order. The slice is a copy; the
// intents share compiled patterns, which are safe for concurrent use.
func (c *Catalog) All() []Intent {
	out := make([]Intent, len(c.intents))
	copy(out, c.intents)
	return out
}

// Lookup finds an intent by name.
func (c *Catalog) Lookup(name string) (Intent, bool) {
	i, ok := c.index[name]
	if !ok {
		return Intent{}, false
	}
	return c.intents[i], true
}

// Names lists intent names in precedence order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.intents))
	for i, in := range c.intents {
		out[i] = in.Name
	}
	return out
}

func (c *Catalog) Len() int { return len(c.intents) }
