package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultConfigFile is where the wizard writes its result.
const DefaultConfigFile = ".vocalflow.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .vocalflow.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to vocalflow! Let's configure your interview setup.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select analysis quality tier",
		Items: []string{
			"lite   — fastest, cheapest analysis",
			"normal — balanced (flash)",
			"max    — highest quality (pro)",
		},
	}
	idx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	cfg.Quality = []QualityTier{QualityLite, QualityNormal, QualityMax}[idx]
	cfg.Model = GetPreset(cfg.Provider, cfg.Quality).Model

	// 2. Data directory.
	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory (flow database and prompt clips)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 3. Capture device (blank keeps the platform default).
	devicePrompt := promptui.Prompt{
		Label:   "Capture device (empty for platform default)",
		Default: cfg.Capture.Device,
	}
	device, err := devicePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("capture device: %w", err)
	}
	cfg.Capture.Device = device

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Optional webhook override.
	webhookPrompt := promptui.Prompt{
		Label: "Webhook endpoint override (empty to use the flow's endpoint)",
		Validate: func(s string) error {
			if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				return nil
			}
			return fmt.Errorf("must begin with http:// or https://")
		},
	}
	hook, err := webhookPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}
	cfg.Webhook = hook

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Printf("\nWrote %s\n", DefaultConfigFile)
	if key := APIKeyEnvVar(cfg.Provider); key != "" && os.Getenv(key) == "" {
		fmt.Printf("Remember to set %s before running a session.\n", key)
	}
	return cfg, nil
}
