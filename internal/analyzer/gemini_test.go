package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/SaadAmawi/VocalFlow/internal/media"
)

func testClip() media.Clip {
	return media.Clip{Data: []byte("fake-webm-bytes"), MIMEType: media.DefaultMIMEType}
}

func geminiSuccessBody(t *testing.T, result AnalysisResult) []byte {
	t.Helper()
	content, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshalling result: %v", err)
	}
	resp := geminiResponse{
		Candidates: []geminiCandidate{{
			Content:      &geminiContent{Role: "model", Parts: []geminiPart{{Text: string(content)}}},
			FinishReason: "STOP",
		}},
	}
	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshalling response: %v", err)
	}
	return body
}

func newTestAnalyzer(url string) *GeminiAnalyzer {
	a := NewGeminiAnalyzer("test-key", "gemini-test")
	a.baseURL = url
	return a
}

func TestAnalyzeParsesStructuredResponse(t *testing.T) {
	want := AnalysisResult{
		Transcription: "Hi",
		Sentiment:     "Confident",
		KeyPoints:     []string{"clarity"},
		Score:         80,
	}

	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("request body not valid JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiSuccessBody(t, want))
	}))
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)
	got := a.Analyze(context.Background(), testClip(), "Tell me about yourself")

	if !reflect.DeepEqual(got, want) {
		t.Errorf("result: got %+v, want %+v", got, want)
	}

	// The request must carry the encoded clip, the question, and the
	// declared schema with all four fields required.
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	inline := gotReq.Contents[0].Parts[0].InlineData
	if inline == nil {
		t.Fatal("request missing inline clip data")
	}
	if inline.MIMEType != media.DefaultMIMEType {
		t.Errorf("inline mime type: got %q", inline.MIMEType)
	}
	decoded, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil || string(decoded) != "fake-webm-bytes" {
		t.Errorf("inline data not the base64 clip: %q, %v", inline.Data, err)
	}
	if gotReq.Contents[0].Parts[1].Text == "" {
		t.Error("request missing instruction text")
	}
	cfg := gotReq.GenerationConfig
	if cfg == nil || cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
		t.Fatalf("missing structured output config: %+v", cfg)
	}
	if len(cfg.ResponseSchema.Required) != 4 {
		t.Errorf("expected 4 required fields, got %v", cfg.ResponseSchema.Required)
	}
	for _, field := range []string{"transcription", "sentiment", "keyPoints", "score"} {
		if _, ok := cfg.ResponseSchema.Properties[field]; !ok {
			t.Errorf("schema missing field %q", field)
		}
	}
}

func TestAnalyzeDoesNotValidateValues(t *testing.T) {
	// Out-of-range score and short key points pass through untouched.
	want := AnalysisResult{Transcription: "x", Sentiment: "Odd", KeyPoints: []string{}, Score: 250}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiSuccessBody(t, want))
	}))
	defer srv.Close()

	got := newTestAnalyzer(srv.URL).Analyze(context.Background(), testClip(), "q")
	if got.Score != 250 {
		t.Errorf("score should not be clamped: got %d", got.Score)
	}
}

func TestAnalyzeSentinelOnFailure(t *testing.T) {
	sentinel := SentinelResult()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"api error payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"empty candidates", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}},
		{"unparseable content", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"oops"}]}}]}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			got := newTestAnalyzer(srv.URL).Analyze(context.Background(), testClip(), "q")
			if !reflect.DeepEqual(got, sentinel) {
				t.Errorf("expected sentinel, got %+v", got)
			}
		})
	}
}

func TestAnalyzeSentinelOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a connection failure

	got := newTestAnalyzer(srv.URL).Analyze(context.Background(), testClip(), "q")
	if !reflect.DeepEqual(got, SentinelResult()) {
		t.Errorf("expected sentinel, got %+v", got)
	}
}

func TestAnalyzeSentinelOnMissingCredential(t *testing.T) {
	a := NewGeminiAnalyzer("", "gemini-test")
	got := a.Analyze(context.Background(), testClip(), "q")
	if !reflect.DeepEqual(got, SentinelResult()) {
		t.Errorf("expected sentinel, got %+v", got)
	}
}

func TestFactory(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	a, err := NewAnalyzer("google", "gemini-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.(*GeminiAnalyzer); !ok {
		t.Errorf("expected *GeminiAnalyzer, got %T", a)
	}

	if _, err := NewAnalyzer("unknown", "m"); err == nil {
		t.Error("expected error for unknown provider")
	}
}
