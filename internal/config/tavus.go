package config

import (
	"os"
	"sync"
)

type TavusConfig struct {
	APIKey    string
	PersonaID string
	ReplicaID string
	BaseURL   string
}

var (
	tavusConfig *TavusConfig
	tavusOnce   sync.Once
)

func LoadTavusConfig() *TavusConfig {
	tavusOnce.Do(func() {
		baseURL := os.Getenv("TAVUS_BASE_URL")
		if baseURL == "" {
			baseURL = "https://tavusapi.com"
		}
		tavusConfig = &TavusConfig{
			APIKey:    os.Getenv("TAVUS_API_KEY"),
			PersonaID: os.Getenv("TAVUS_PERSONA_ID"),
			ReplicaID: os.Getenv("TAVUS_REPLICA_ID"),
			BaseURL:   baseURL,
		}
	})
	return tavusConfig
}
