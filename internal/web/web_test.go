package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingOpener struct {
	urls []string
	err  error
}

func (r *recordingOpener) Open(_ context.Context, u string) error {
	r.urls = append(r.urls, u)
	return r.err
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchAndYouTubeURLs(t *testing.T) {
	t.Parallel()
	o := &recordingOpener{}
	tools := New(WithOpener(o), quiet())

	if u, err := tools.Search(context.Background(), "go generics & you"); err != nil || u != "https://www.google.com/search?q=go+generics+%26+you" {
		t.Fatalf("Search = %q, %v", u, err)
	}
	if u, err := tools.YouTube(context.Background(), "lofi beats"); err != nil || u != "https://www.youtube.com/results?search_query=lofi+beats" {
		t.Fatalf("YouTube = %q, %v", u, err)
	}
	if len(o.urls) != 2 {
		t.Fatalf("opened %v", o.urls)
	}
}

func TestOpenerFailureIsReturned(t *testing.T) {
	t.Parallel()
	tools := New(WithOpener(&recordingOpener{err: errors.New("no display")}), quiet())

	if _, err := tools.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSiteURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		want  string
		known bool
	}{
		{"GitHub", "https://github.com", true},
		{"stack overflow", "https://stackoverflow.com", true},
		{"golang.org", "https://golang.org", false},
		{"https://example.com/x", "https://example.com/x", false},
		{"hacker news", "https://www.hackernews.com", false},
	}
	for _, tc := range cases {
		u, known := SiteURL(tc.in)
		if u != tc.want || known != tc.known {
			t.Errorf("SiteURL(%q) = %q, %v", tc.in, u, known)
		}
	}
	if !IsKnownSite("reddit") || IsKnownSite("frobnicator") {
		t.Error("IsKnownSite disagrees with KnownSites")
	}
}

func TestOpenWebsiteEmpty(t *testing.T) {
	t.Parallel()
	tools := New(WithOpener(&recordingOpener{}), quiet())

	if _, err := tools.OpenWebsite(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func wikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing User-Agent")
		}
		title := strings.TrimPrefix(r.URL.Path, "/api/rest_v1/page/summary/")
		switch title {
		case "Alan_Turing", "alan_turing":
			io.WriteString(w, `{"type":"standard","title":"Alan Turing",
				"extract":"Alan Mathison Turing was an English mathematician. He was a computer scientist. He was a logician. He was a cryptanalyst.",
				"content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Alan_Turing"}}}`)
		case "Mercury":
			io.WriteString(w, `{"type":"disambiguation","title":"Mercury","extract":"Mercury may refer to:"}`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "opensearch" {
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
		switch r.URL.Query().Get("search") {
		case "Mercury":
			io.WriteString(w, `["Mercury",["Mercury (planet)","Mercury (element)","Mercury (mythology)"],["","",""],["","",""]]`)
		case "turing machin":
			io.WriteString(w, `["turing machin",["Turing machine","Turing machine equivalents"],[],[]]`)
		default:
			io.WriteString(w, `["x",[],[],[]]`)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupSummary(t *testing.T) {
	t.Parallel()
	srv := wikiServer(t)
	tools := New(WithWikipediaURL(srv.URL+"/"), WithHTTPClient(srv.Client()), quiet())

	a, err := tools.Lookup(context.Background(), "Alan Turing")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := "Alan Mathison Turing was an English mathematician. He was a computer scientist. He was a logician."
	if a.Title != "Alan Turing" || a.Summary != want || !a.HasSummary() {
		t.Fatalf("article = %+v", a)
	}
	if a.URL != "https://en.wikipedia.org/wiki/Alan_Turing" {
		t.Fatalf("URL = %q", a.URL)
	}
}

func TestLookupSentenceLimit(t *testing.T) {
	t.Parallel()
	srv := wikiServer(t)

	a, err := New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), WithSentences(1), quiet()).
		Lookup(context.Background(), "Alan Turing")
	if err != nil || a.Summary != "Alan Mathison Turing was an English mathematician." {
		t.Fatalf("one sentence: %q, %v", a.Summary, err)
	}

	a, err = New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), WithSentences(0), quiet()).
		Lookup(context.Background(), "Alan Turing")
	if err != nil || !strings.HasSuffix(a.Summary, "He was a cryptanalyst.") {
		t.Fatalf("all sentences: %q, %v", a.Summary, err)
	}
}

func TestLookupDisambiguation(t *testing.T) {
	t.Parallel()
	srv := wikiServer(t)
	tools := New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), quiet())

	a, err := tools.Lookup(context.Background(), "Mercury")
	if err != nil {
		t.Fatal(err)
	}
	if a.HasSummary() || len(a.Suggestions) != 3 || a.Suggestions[0] != "Mercury (planet)" {
		t.Fatalf("article = %+v", a)
	}
}

func TestLookupSuggestions(t *testing.T) {
	t.Parallel()
	srv := wikiServer(t)
	tools := New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), quiet())

	a, err := tools.Lookup(context.Background(), "turing machin")
	if err != nil {
		t.Fatal(err)
	}
	if a.HasSummary() || strings.Join(a.Suggestions, "|") != "Turing machine|Turing machine equivalents" {
		t.Fatalf("article = %+v", a)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()
	srv := wikiServer(t)
	tools := New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), quiet())

	if _, err := tools.Lookup(context.Background(), "qwzx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	tools := New(WithWikipediaURL(srv.URL), WithHTTPClient(srv.Client()), quiet())

	_, err := tools.Lookup(context.Background(), "anything")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFirstSentences(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"One. Two. Three.", 2, "One. Two."},
		{"Version 1.5 is out. Yes!", 1, "Version 1.5 is out."},
		{"No stop", 3, "No stop"},
		{"A? B! C.", 0, "A? B! C."},
	}
	for _, tc := range cases {
		if got := FirstSentences(tc.in, tc.n); got != tc.want {
			t.Errorf("FirstSentences(%q, %d) = %q", tc.in, tc.n, got)
		}
	}
}

func TestHeadlines(t *testing.T) {
	t.Parallel()
	tools := New(quiet())

	got, cat := tools.Headlines("", 3)
	if cat != DefaultNewsCategory || len(got) != 3 {
		t.Fatalf("Headlines default = %v, %q", got, cat)
	}
	got, cat = tools.Headlines("Science", 10)
	if cat != "science" || len(got) != 5 {
		t.Fatalf("Headlines science = %v, %q", got, cat)
	}
	if _, cat = tools.Headlines("sports", 1); cat != "general" {
		t.Fatalf("fallback category = %q", cat)
	}
}
