package newsapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecentNewsRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"articles":[{"url":"https://news.example.com/a"}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "api-key-1", discardLogger())
	c.httpClient = srv.Client()

	refs, err := c.RecentNews(context.Background(), "company-42")
	if err != nil {
		t.Fatalf("RecentNews: %v", err)
	}
	if gotPath != "/entities/company-42/news" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "trailingRange=30" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "api-key-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(refs) != 1 || refs[0].URL != "https://news.example.com/a" {
		t.Errorf("refs = %v", refs)
	}
	if refs[0].CompanyID != "company-42" {
		t.Errorf("CompanyID = %q", refs[0].CompanyID)
	}
}

func TestRecentNewsDecodesBareArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"url":"https://news.example.com/a"},{"url":"https://news.example.com/b"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, "k", discardLogger())
	c.httpClient = srv.Client()

	refs, err := c.RecentNews(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RecentNews: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("len(refs) = %d, want 2", len(refs))
	}
}

func TestRecentNewsSkipsStubsWithoutURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"articles":[{"url":""},{"url":"https://news.example.com/a"},{}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "k", discardLogger())
	c.httpClient = srv.Client()

	refs, err := c.RecentNews(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RecentNews: %v", err)
	}
	if len(refs) != 1 {
		t.Errorf("len(refs) = %d, want 1", len(refs))
	}
}

func TestRecentNewsErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "k", discardLogger())
	c.httpClient = srv.Client()

	if _, err := c.RecentNews(context.Background(), "c1"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
