package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeTokens struct {
	token string
	err   error
}

func (f fakeTokens) Token(context.Context) (string, error) { return f.token, f.err }

func TestScoreFetchesOwnTokenAndReturnsEvaluation(t *testing.T) {
	t.Parallel()

	var gotAuth, prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body chatRequest
		json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Messages[len(body.Messages)-1].Content
		io.WriteString(w, chatContent("| BERT | 0.91 |\nThe analysis closely matches the article."))
	}))
	defer srv.Close()

	s := NewScorer(newTestClient(srv), fakeTokens{token: "score-tok"}, discardLogger())
	got, err := s.Score(context.Background(), "original article", "generated analysis")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if gotAuth != "Bearer score-tok" {
		t.Errorf("Authorization = %q, want Bearer score-tok", gotAuth)
	}
	if !strings.Contains(got, "0.91") {
		t.Errorf("score = %q, want evaluation text", got)
	}
	if !strings.Contains(prompt, "original article") || !strings.Contains(prompt, "generated analysis") {
		t.Errorf("prompt is missing inputs: %q", prompt)
	}
}

func TestScoreFailsWithoutToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no completion call expected without a token")
	}))
	defer srv.Close()

	s := NewScorer(newTestClient(srv), fakeTokens{token: ""}, discardLogger())
	if _, err := s.Score(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error for empty token")
	}

	s = NewScorer(newTestClient(srv), fakeTokens{err: errors.New("exchange down")}, discardLogger())
	if _, err := s.Score(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error for token exchange failure")
	}
}

func TestScoreFailsAfterExhaustedRetries(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewScorer(newTestClient(srv), fakeTokens{token: "tok"}, discardLogger())
	if _, err := s.Score(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
}
