package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Article is a Wikipedia answer: either a summary or, when the query was
// ambiguous or unknown, a list of titles to try.
type Article struct {
	Title       string
	Summary     string
	URL         string
	Suggestions []string
}

func (a Article) HasSummary() bool { return a.Summary != "" }

const maxSuggestions = 5

// Lookup finds a Wikipedia summary for query. Ambiguous or inexact queries
// come back with Suggestions instead; nothing at all is ErrNotFound.
func (t *Tools) Lookup(ctx context.Context, query string) (Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Article{}, fmt.Errorf("wikipedia: empty query: %w", ErrNotFound)
	}

	a, found, err := t.summary(ctx, query)
	if err != nil {
		return Article{}, err
	}
	if found && a.Summary != "" {
		return a, nil
	}

	titles, err := t.opensearch(ctx, query)
	if err != nil {
		return Article{}, err
	}
	if len(titles) == 0 {
		return Article{}, fmt.Errorf("wikipedia %q: %w", query, ErrNotFound)
	}

	// An exact title hit from opensearch is worth one more summary fetch.
	if !found && strings.EqualFold(titles[0], query) {
		if b, ok, err := t.summary(ctx, titles[0]); err == nil && ok && b.Summary != "" {
			return b, nil
		}
	}

	return Article{Title: a.Title, URL: a.URL, Suggestions: titles}, nil
}

// summary fetches the REST page summary. found is false on 404; a
// disambiguation page is found but carries no summary.
func (t *Tools) summary(ctx context.Context, title string) (Article, bool, error) {
	u := t.wikiURL + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	body, status, err := t.get(ctx, u)
	if err != nil {
		return Article{}, false, err
	}
	if status == http.StatusNotFound {
		return Article{}, false, nil
	}
	if status != http.StatusOK {
		return Article{}, false, fmt.Errorf("wikipedia summary %q: status %d", title, status)
	}

	doc := gjson.ParseBytes(body)
	a := Article{
		Title: doc.Get("title").String(),
		URL:   doc.Get("content_urls.desktop.page").String(),
	}
	if doc.Get("type").String() != "disambiguation" {
		a.Summary = FirstSentences(doc.Get("extract").String(), t.sentences)
	}
	t.log.Debug("Wikipedia summary", "title", a.Title, "type", doc.Get("type").String())
	return a, true, nil
}

func (t *Tools) opensearch(ctx context.Context, query string) ([]string, error) {
	q := url.Values{
		"action":    {"opensearch"},
		"search":    {query},
		"limit":     {fmt.Sprint(maxSuggestions)},
		"namespace": {"0"},
		"format":    {"json"},
	}
	body, status, err := t.get(ctx, t.wikiURL+"/w/api.php?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wikipedia search %q: status %d", query, status)
	}

	// [query, [titles...], [descriptions...], [urls...]]
	var titles []string
	for _, r := range gjson.GetBytes(body, "1").Array() {
		if s := r.String(); s != "" {
			titles = append(titles, s)
		}
	}
	return titles, nil
}

func (t *Tools) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", u, err)
	}
	return body, resp.StatusCode, nil
}

// FirstSentences keeps the first n sentences of text. n <= 0 keeps all.
func FirstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 || text == "" {
		return text
	}
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				count++
				if count == n {
					return text[:i+1]
				}
			}
		}
	}
	return text
}
