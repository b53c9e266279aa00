package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexboard/nexboard/internal/adapter/litellm"
	"github.com/nexboard/nexboard/internal/config"
)

func newAssistServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"model":"openai/gpt-4o-mini","choices":[{"message":{"content":%q}}],"usage":{"prompt_tokens":50,"completion_tokens":80}}`, content)
	}))
}

func newAssistService(url string) *AssistService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAssistService(litellm.NewClient(url, ""), config.Defaults().Assist, logger)
}

func TestBreakdownTask(t *testing.T) {
	srv := newAssistServer(t, `{"description":"Implement the login page.","subtasks":["Build form","Wire API","Add tests"],"points":5}`)
	defer srv.Close()

	bd, err := newAssistService(srv.URL).BreakdownTask(context.Background(), "Login page", "")
	if err != nil {
		t.Fatalf("BreakdownTask: %v", err)
	}
	if len(bd.Subtasks) != 3 {
		t.Fatalf("subtasks = %d, want 3", len(bd.Subtasks))
	}
	if bd.Points != 5 {
		t.Fatalf("points = %d, want 5", bd.Points)
	}
}

func TestBreakdownTaskStripsCodeFence(t *testing.T) {
	srv := newAssistServer(t, "```json\n{\"description\":\"d\",\"subtasks\":[\"a\"],\"points\":2}\n```")
	defer srv.Close()

	bd, err := newAssistService(srv.URL).BreakdownTask(context.Background(), "Fenced", "")
	if err != nil {
		t.Fatalf("BreakdownTask: %v", err)
	}
	if bd.Points != 2 {
		t.Fatalf("points = %d, want 2", bd.Points)
	}
}

func TestBreakdownTaskRejectsEmptySubtasks(t *testing.T) {
	srv := newAssistServer(t, `{"description":"d","subtasks":[],"points":1}`)
	defer srv.Close()

	if _, err := newAssistService(srv.URL).BreakdownTask(context.Background(), "Empty", ""); err == nil {
		t.Fatal("want error for empty subtasks")
	}
}

func TestPolishText(t *testing.T) {
	srv := newAssistServer(t, "  Add retry logic to the webhook handler.\n")
	defer srv.Close()

	got, err := newAssistService(srv.URL).PolishText(context.Background(), "umm add some retries to webhook thing")
	if err != nil {
		t.Fatalf("PolishText: %v", err)
	}
	if got != "Add retry logic to the webhook handler." {
		t.Fatalf("polished = %q", got)
	}
}

func TestExtractJSONProse(t *testing.T) {
	got := extractJSON(`Here is the plan: {"points":3} hope it helps`)
	if got != `{"points":3}` {
		t.Fatalf("extractJSON = %q", got)
	}
}
