package config

// QualityPreset describes the model to use for a given quality tier.
type QualityPreset struct {
	Model string
}

// qualityPresets maps each provider+quality combination to its model choice.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderGoogle: {
		QualityLite:   {Model: "gemini-3-flash-preview"},
		QualityNormal: {Model: "gemini-3-flash-preview"},
		QualityMax:    {Model: "gemini-3-pro-preview"},
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGoogle,
		Model:    "gemini-3-flash-preview",
		Quality:  QualityNormal,
		DataDir:  ".vocalflow",
		Capture: CaptureConfig{
			FFmpegPath:       "ffmpeg",
			PromptMaxSeconds: 60,
			AnswerMaxSeconds: 90,
		},
		Server: ServerConfig{
			Port: 8787,
		},
	}
}

// GetPreset returns the quality preset for the given provider and tier.
// Returns the Normal Google preset if the combination is not found.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderGoogle][QualityNormal]
}
