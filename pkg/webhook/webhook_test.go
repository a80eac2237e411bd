package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmacnab/smstrace/pkg/report"
)

func testReport() *report.Report {
	return &report.Report{TotalEvents: 3, TotalRejected: 1}
}

func TestSend(t *testing.T) {
	var gotAuth, gotContentType, gotUserAgent string
	var gotBody report.Report

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), testReport(), SendOptions{
		URL:   server.URL,
		Token: "secret",
	})

	if !resp.Success() {
		t.Fatalf("Success() = false: status %d, err %v", resp.StatusCode, resp.Error)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotUserAgent != "smstrace" {
		t.Errorf("User-Agent = %q", gotUserAgent)
	}
	if gotBody.TotalEvents != 3 {
		t.Errorf("posted TotalEvents = %d, want 3", gotBody.TotalEvents)
	}
}

func TestSend_NoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, want unset", auth)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), testReport(), SendOptions{URL: server.URL})
	if !resp.Success() {
		t.Errorf("Success() = false for 204: %+v", resp)
	}
}

func TestSend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), testReport(), SendOptions{URL: server.URL})
	if resp.Success() {
		t.Error("Success() = true for a 500 response")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if resp.Body == "" {
		t.Error("Body empty, want error text captured")
	}
}

func TestSend_ConnectionRefused(t *testing.T) {
	// A server that is already closed refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	resp := NewClient().Send(context.Background(), testReport(), SendOptions{URL: server.URL})
	if resp.Success() {
		t.Error("Success() = true for refused connection")
	}
	if resp.Error == nil {
		t.Error("Error = nil, want transport failure")
	}
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	resp := NewClient().Send(context.Background(), testReport(), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})
	if resp.Error == nil {
		t.Error("Error = nil, want timeout")
	}
}

func TestSend_BadURL(t *testing.T) {
	resp := NewClient().Send(context.Background(), testReport(), SendOptions{URL: "://not-a-url"})
	if resp.Error == nil {
		t.Error("Error = nil, want request creation failure")
	}
	if resp.Success() {
		t.Error("Success() = true for invalid URL")
	}
}
