package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/SaadAmawi/VocalFlow/internal/media"
)

const geminiAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiAnalyzer implements Analyzer using the Google Gemini API via direct
// HTTP, sending the clip inline with a structured-output request.
type GeminiAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiAnalyzer creates a new Gemini analyzer.
func NewGeminiAnalyzer(apiKey string, model string) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiAPIBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// analysisSchema declares the exact result shape the model must return:
// all four fields, no more, all required.
func analysisSchema() *geminiSchema {
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"transcription": {Type: "STRING"},
			"sentiment":     {Type: "STRING"},
			"keyPoints":     {Type: "ARRAY", Items: &geminiSchema{Type: "STRING"}},
			"score":         {Type: "INTEGER"},
		},
		Required: []string{"transcription", "sentiment", "keyPoints", "score"},
	}
}

// Analyze sends one generation request for the clip and parses the
// structured response. Any failure yields the sentinel result instead of
// an error; the failure is logged and otherwise kept in-band.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, clip media.Clip, questionText string) AnalysisResult {
	result, err := a.analyze(ctx, clip, questionText)
	if err != nil {
		log.Printf("analyzer: %v", err)
		return SentinelResult()
	}
	return result
}

func (a *GeminiAnalyzer) analyze(ctx context.Context, clip media.Clip, questionText string) (AnalysisResult, error) {
	if a.apiKey == "" {
		return AnalysisResult{}, fmt.Errorf("missing Gemini API key")
	}

	instruction := fmt.Sprintf(
		"You are an expert interview assessor. The candidate was asked: %q. "+
			"Analyze the attached video answer. Provide a full transcription of what was said, "+
			"the overall sentiment, 3-5 key points from the answer, and a score from 0 to 100 "+
			"for the quality of the answer.",
		questionText,
	)

	apiReq := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MIMEType: clip.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(clip.Data),
				}},
				{Text: instruction},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("marshalling gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("reading gemini response: %w", err)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return AnalysisResult{}, fmt.Errorf("unmarshalling gemini response: %w", err)
	}

	if apiResp.Error != nil {
		return AnalysisResult{}, fmt.Errorf("gemini API error (%s): %s", apiResp.Error.Status, apiResp.Error.Message)
	}

	if httpResp.StatusCode != http.StatusOK {
		return AnalysisResult{}, fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var content string
	if len(apiResp.Candidates) > 0 && apiResp.Candidates[0].Content != nil {
		for _, part := range apiResp.Candidates[0].Content.Parts {
			content += part.Text
		}
	}
	if content == "" {
		return AnalysisResult{}, fmt.Errorf("gemini returned an empty response")
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("parsing analysis result: %w", err)
	}
	return result, nil
}
