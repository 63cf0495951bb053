// Package web opens pages in the user's browser and fetches short answers
// from Wikipedia.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nova/internal/system"
)

var ErrNotFound = errors.New("not found")

// Opener shows a URL to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Browser opens URLs with xdg-open.
type Browser struct {
	Run system.Runner
}

func (b Browser) Open(ctx context.Context, u string) error {
	r := b.Run
	if r == nil {
		r = system.ExecRunner{}
	}
	return r.Start(ctx, "xdg-open", u)
}

// KnownSites maps spoken site names to their home pages.
var KnownSites = map[string]string{
	"google":         "https://www.google.com",
	"youtube":        "https://www.youtube.com",
	"github":         "https://github.com",
	"stackoverflow":  "https://stackoverflow.com",
	"stack overflow": "https://stackoverflow.com",
	"reddit":         "https://www.reddit.com",
	"twitter":        "https://twitter.com",
	"linkedin":       "https://linkedin.com",
	"facebook":       "https://facebook.com",
	"instagram":      "https://instagram.com",
	"netflix":        "https://netflix.com",
	"spotify":        "https://open.spotify.com",
	"amazon":         "https://amazon.com",
	"wikipedia":      "https://wikipedia.org",
	"news":           "https://news.google.com",
	"weather":        "https://weather.com",
	"maps":           "https://maps.google.com",
	"gmail":          "https://gmail.com",
	"drive":          "https://drive.google.com",
	"calendar":       "https://calendar.google.com",
	"translate":      "https://translate.google.com",
}

const (
	DefaultWikipediaURL = "https://en.wikipedia.org"
	userAgent           = "nova-assistant/1.0 (desktop voice assistant)"
)

type Option func(*Tools)

func WithOpener(o Opener) Option {
	return func(t *Tools) { t.open = o }
}

// WithHTTPClient sets the client for Wikipedia requests.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tools) { t.http = c }
}

// WithWikipediaURL points lookups at another MediaWiki host.
func WithWikipediaURL(base string) Option {
	return func(t *Tools) { t.wikiURL = strings.TrimRight(base, "/") }
}

// WithSentences limits Wikipedia summaries to n sentences.
func WithSentences(n int) Option {
	return func(t *Tools) { t.sentences = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tools) { t.log = l }
}

type Tools struct {
	open      Opener
	http      *http.Client
	wikiURL   string
	sentences int
	log       *slog.Logger
}

func New(opts ...Option) *Tools {
	t := &Tools{
		open:      Browser{},
		http:      &http.Client{Timeout: 15 * time.Second},
		wikiURL:   DefaultWikipediaURL,
		sentences: 3,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Search opens a Google search and returns its URL.
func (t *Tools) Search(ctx context.Context, query string) (string, error) {
	u := "https://www.google.com/search?q=" + url.QueryEscape(query)
	return u, t.openURL(ctx, u)
}

// YouTube opens a YouTube search and returns its URL.
func (t *Tools) YouTube(ctx context.Context, query string) (string, error) {
	u := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	return u, t.openURL(ctx, u)
}

// SiteURL resolves a spoken site name. Known names come from KnownSites,
// anything with a dot is taken as a host, a bare word becomes www.<word>.com.
func SiteURL(site string) (u string, known bool) {
	site = strings.ToLower(strings.TrimSpace(site))
	if u, ok := KnownSites[site]; ok {
		return u, true
	}
	switch {
	case strings.HasPrefix(site, "http://"), strings.HasPrefix(site, "https://"):
		return site, false
	case strings.Contains(site, "."):
		return "https://" + strings.ReplaceAll(site, " ", ""), false
	default:
		return "https://www." + strings.ReplaceAll(site, " ", "") + ".com", false
	}
}

// OpenWebsite opens a site by name and returns the URL it opened.
func (t *Tools) OpenWebsite(ctx context.Context, site string) (string, error) {
	if strings.TrimSpace(site) == "" {
		return "", fmt.Errorf("website: %w", ErrNotFound)
	}
	u, _ := SiteURL(site)
	return u, t.openURL(ctx, u)
}

// IsKnownSite reports whether site has a curated URL.
func IsKnownSite(site string) bool {
	_, ok := SiteURL(site)
	return ok
}

func (t *Tools) openURL(ctx context.Context, u string) error {
	t.log.Debug("Opening browser", "url", u)
	if err := t.open.Open(ctx, u); err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	return nil
}
