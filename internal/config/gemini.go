package config

import (
	"os"
	"sync"
)

// GeminiConfig carries the generation provider credential. An empty key is
// allowed; the gateway then serves every call from its local fallbacks.
type GeminiConfig struct {
	APIKey string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		}
	})
	return geminiConfig
}
