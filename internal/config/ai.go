package config

import "os"

// AIConfig holds configuration for the external evidence producer
// (a vision/reasoning model consumed as a black box returning JSON)
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the default evidence producer configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta/models",
		Model:     getEnvOrDefault("GEMINI_MODEL_VISION", "gemini-2.0-flash"),
		TimeoutMS: 30000, // extraction calls carry images and are slow
	}
}

// IsEnabled returns true if the external model is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
