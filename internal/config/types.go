package config

// QualityTier controls the model selection and trade-off between speed/cost
// and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an analysis provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
)

// CaptureConfig holds camera/microphone capture settings.
type CaptureConfig struct {
	// FFmpegPath is the capture binary; defaults to "ffmpeg" on PATH.
	FFmpegPath string `yaml:"ffmpeg_path" koanf:"ffmpeg_path"`
	// InputFormat is the ffmpeg capture backend (v4l2, avfoundation, dshow).
	// Empty selects a platform default.
	InputFormat string `yaml:"input_format" koanf:"input_format"`
	// Device identifies the camera/microphone for the chosen backend.
	Device string `yaml:"device" koanf:"device"`
	// PromptMaxSeconds bounds author prompt recordings.
	PromptMaxSeconds int `yaml:"prompt_max_seconds" koanf:"prompt_max_seconds"`
	// AnswerMaxSeconds bounds candidate answer recordings.
	AnswerMaxSeconds int `yaml:"answer_max_seconds" koanf:"answer_max_seconds"`
}

// ServerConfig holds serve-mode settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level vocalflow configuration, corresponding to
// .vocalflow.yml.
type Config struct {
	Provider ProviderType  `yaml:"provider" koanf:"provider"`
	Model    string        `yaml:"model" koanf:"model"`
	Quality  QualityTier   `yaml:"quality" koanf:"quality"`
	DataDir  string        `yaml:"data_dir" koanf:"data_dir"`
	Capture  CaptureConfig `yaml:"capture" koanf:"capture"`
	Server   ServerConfig  `yaml:"server" koanf:"server"`
	// Webhook, when set, overrides the flow's destination endpoint.
	Webhook string `yaml:"webhook" koanf:"webhook"`
}
