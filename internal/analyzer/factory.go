package analyzer

import (
	"fmt"
	"os"
)

// NewAnalyzer creates an analyzer for the given provider type and model.
// A missing API key is not an error here: per the never-fails contract it
// surfaces as the sentinel result at analysis time.
func NewAnalyzer(providerType string, model string) (Analyzer, error) {
	switch providerType {
	case "google":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		return NewGeminiAnalyzer(apiKey, model), nil

	default:
		return nil, fmt.Errorf("unsupported analyzer provider: %s", providerType)
	}
}
