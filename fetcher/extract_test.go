package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestExtractTextPrefersArticle(t *testing.T) {
	doc := docFromString(t, `
	<body>
	  <main>main text</main>
	  <article>article text</article>
	</body>`)

	if got := extractText(doc); got != "article text" {
		t.Fatalf("expected article text, got %q", got)
	}
}

func TestExtractTextFallsBackToMain(t *testing.T) {
	doc := docFromString(t, `<body>body filler<main>main text</main></body>`)

	if got := extractText(doc); got != "main text" {
		t.Fatalf("expected main text, got %q", got)
	}
}

func TestExtractTextFallsBackToBody(t *testing.T) {
	doc := docFromString(t, `<body>only body text</body>`)

	if got := extractText(doc); got != "only body text" {
		t.Fatalf("expected body text, got %q", got)
	}
}

func TestExtractFetchesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><article>the story</article></body></html>`))
	}))
	defer server.Close()

	e := NewExtractor(time.Second)

	content, err := e.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if content != "the story" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestExtractReportsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	e := NewExtractor(time.Second)

	if _, err := e.Extract(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 source")
	}
}
