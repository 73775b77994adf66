package granola_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zoobzio/granola"
)

type ticket struct {
	Title    string   `json:"title"`
	Assignee *string  `json:"assignee"`
	Labels   []string `json:"labels"`
}

func TestClient_RoundTripsThroughPolicy(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("request body %q is not JSON: %v", body, err)
		}
		w.Header().Set("Content-Type", "application/json")
		// Empty string and null exercise the decode-side policy; the
		// unknown field exercises tolerance.
		_, _ = w.Write([]byte(`{"title":"done","assignee":"","labels":null,"unknown_field":1}`))
	}))
	defer srv.Close()

	client := granola.NewClient()

	var out ticket
	err := client.Post(context.Background(), srv.URL, ticket{Title: "boot loop"}, &out)
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}

	// Request side: empty fields were pruned by the mapper.
	if received["title"] != "boot loop" {
		t.Errorf("request title = %v, want %q", received["title"], "boot loop")
	}
	if _, ok := received["assignee"]; ok {
		t.Error("empty assignee should be absent from the request body")
	}
	if _, ok := received["labels"]; ok {
		t.Error("empty labels should be absent from the request body")
	}

	// Response side: the same policy normalized the decoded value.
	if out.Title != "done" {
		t.Errorf("title = %q, want %q", out.Title, "done")
	}
	if out.Assignee != nil {
		t.Errorf("assignee = %q, want nil", *out.Assignee)
	}
	if out.Labels == nil || len(out.Labels) != 0 {
		t.Errorf("labels = %v, want empty slice", out.Labels)
	}
}

func TestClient_SetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q, want application/json", accept)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID should be set")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := granola.NewClient()
	if err := client.Post(context.Background(), srv.URL, ticket{Title: "t"}, nil); err != nil {
		t.Fatalf("Post() error: %v", err)
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nothing here", http.StatusNotFound)
	}))
	defer srv.Close()

	client := granola.NewClient()

	var out ticket
	err := client.Get(context.Background(), srv.URL, &out)
	if err == nil {
		t.Fatal("Get() = nil, want error for 404")
	}
	if !errors.Is(err, granola.ErrRequestFailed) {
		t.Errorf("error = %v, want ErrRequestFailed", err)
	}

	var se *granola.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StatusError", err)
	}
	if se.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", se.Status)
	}
	if se.Message != "nothing here" {
		t.Errorf("message = %q, want %q", se.Message, "nothing here")
	}
}

func TestClient_SharedMapper(t *testing.T) {
	m := granola.New()

	a := granola.NewClientWith(m)
	b := granola.NewClientWith(m)

	if a.Mapper() != m || b.Mapper() != m {
		t.Error("clients should compose the supplied mapper by reference")
	}
	if a == b {
		t.Error("NewClientWith() should return independent clients")
	}
}

func TestClient_DefaultsToFreshMapper(t *testing.T) {
	a := granola.NewClient()
	b := granola.NewClient()
	if a.Mapper() == nil {
		t.Fatal("NewClient() should build a mapper")
	}
	if a.Mapper() == b.Mapper() {
		t.Error("each NewClient() should get its own mapper")
	}
}

func TestClient_WithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := granola.NewClient(granola.WithHTTPClient(hc))
	if err := client.Delete(context.Background(), srv.URL); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := granola.NewClient()
	if err := client.Get(ctx, srv.URL, nil); err == nil {
		t.Error("Get() with canceled context should return the transport error")
	}
}
