package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmitPostsJSON(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := map[string]string{"flowTitle": "Dev Interview"}
	if err := NewClient().Submit(srv.URL, payload); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected exactly one POST, got %d", calls)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type: got %q", gotContentType)
	}
	var decoded map[string]string
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if decoded["flowTitle"] != "Dev Interview" {
		t.Errorf("body: got %v", decoded)
	}
}

func TestSubmitSkipsEmptyEndpoint(t *testing.T) {
	if err := NewClient().Submit("", map[string]string{}); err != nil {
		t.Errorf("empty endpoint should be a no-op, got %v", err)
	}
}

func TestSubmitNon2xxIsSubmissionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient().Submit(srv.URL, map[string]string{})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SubmissionError, got %T", err)
	}
	if serr.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d", serr.StatusCode)
	}
}

func TestSubmitNetworkErrorIsSubmissionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewClient().Submit(srv.URL, map[string]string{})
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SubmissionError, got %T (%v)", err, err)
	}
}
