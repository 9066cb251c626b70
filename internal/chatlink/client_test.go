package chatlink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendMessage(t *testing.T) {
	var got ReplyRequest
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reply" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		header = r.Header.Get("X-Player")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithHeaderProvider(func() map[string]string {
		return map[string]string{"X-Player": "Alice", "X-Empty": " "}
	}))
	if err := c.SendMessage(context.Background(), "dm-bob", "CHESS:ab12cd34:E2:E4"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.Type != "text" || got.Room != "dm-bob" || got.Data != "CHESS:ab12cd34:E2:E4" {
		t.Fatalf("payload = %+v", got)
	}
	if header != "Alice" {
		t.Fatalf("header = %q", header)
	}
}

func TestSendMessageRetries5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3))
	if err := c.SendMessage(context.Background(), "room", "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("calls = %d", n)
	}
}

func TestSendMessageNoRetryOn4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad room", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(5), WithTimeout(2*time.Second))
	err := c.SendMessage(context.Background(), "room", "hi")
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("err = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d", n)
	}
	if err := c.SendMessage(context.Background(), " ", "hi"); err == nil {
		t.Fatalf("empty room should fail")
	}
}

func TestBackoffDuration(t *testing.T) {
	if backoffDuration(1) != 100*time.Millisecond || backoffDuration(3) != 400*time.Millisecond || backoffDuration(99) != 3200*time.Millisecond {
		t.Fatalf("unexpected backoff schedule")
	}
}
