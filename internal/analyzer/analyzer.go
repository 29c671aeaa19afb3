package analyzer

import (
	"context"

	"github.com/SaadAmawi/VocalFlow/internal/media"
)

// AnalysisResult is the fixed-shape assessment of one answer clip. The
// remote model declares no guarantees beyond the field types: score range
// and key-point count are not enforced here.
type AnalysisResult struct {
	Transcription string   `json:"transcription"`
	Sentiment     string   `json:"sentiment"`
	KeyPoints     []string `json:"keyPoints"`
	Score         int      `json:"score"`
}

// Analyzer produces exactly one AnalysisResult per answer clip.
//
// Analyze never fails outwardly: any transport, credential, or parse
// failure is mapped to SentinelResult so a session always keeps moving.
// The orchestrator relies on this contract.
type Analyzer interface {
	Analyze(ctx context.Context, clip media.Clip, questionText string) AnalysisResult
}

// SentinelResult is the in-band substitute returned for any analysis
// failure.
func SentinelResult() AnalysisResult {
	return AnalysisResult{
		Transcription: "Error analyzing video.",
		Sentiment:     "Unknown",
		KeyPoints:     []string{"Analysis failed"},
		Score:         0,
	}
}
