package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"walkboard/models"
)

func TestClient_FetchFollowsRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("_t") == "" {
			t.Errorf("pull without cache buster: %s", r.URL)
		}
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"success","dogs":[{"id":1,"name":"Rex"}],"settings":[{"key":"db_version_team_1","value":3}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/exec", Options{Timeout: 5 * time.Second, Location: time.UTC})
	rs, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rs.Dogs) != 1 || rs.Dogs[0].ID != "1" {
		t.Errorf("dogs = %+v", rs.Dogs)
	}
	if v, _ := rs.Setting(models.VersionKey("team_1")); v != "3" {
		t.Errorf("version = %q", v)
	}
}

func TestClient_FetchErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/down"):
			w.WriteHeader(http.StatusBadGateway)
		case strings.HasPrefix(r.URL.Path, "/html"):
			io.WriteString(w, "<!doctype html><p>Sign in</p>")
		}
	}))
	defer srv.Close()

	tests := []struct {
		path string
		want error
	}{
		{"/down", ErrTransport},
		{"/html", ErrMalformedPayload},
	}
	for _, tt := range tests {
		c := NewClient(srv.URL+tt.path, Options{Timeout: 5 * time.Second})
		if _, err := c.Fetch(context.Background()); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.path, err, tt.want)
		}
	}

	if _, err := NewClient("", Options{}).Fetch(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Errorf("disabled client err = %v", err)
	}
}

func TestClient_RunPostsActionsInOrder(t *testing.T) {
	t.Parallel()

	received := make(chan models.SyncAction, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var a models.SyncAction
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- a
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{Timeout: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Push(models.SyncAction{Action: "createGroup", Payload: map[string]string{"id": "g1"}})
	c.Push(models.SyncAction{Action: "deleteGroup", Payload: map[string]string{"id": "g1"}})

	for _, want := range []string{"createGroup", "deleteGroup"} {
		select {
		case got := <-received:
			if got.Action != want {
				t.Errorf("action = %s, want %s", got.Action, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestClient_PushNeverBlocks(t *testing.T) {
	t.Parallel()

	c := NewClient("http://127.0.0.1:1/exec", Options{QueueSize: 1})
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.Push(models.SyncAction{Action: "log"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full queue")
	}
	if len(c.queue) != 1 {
		t.Errorf("queue length = %d, want 1", len(c.queue))
	}
}
