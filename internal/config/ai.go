package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// QuizGen is for quiz generation (needs to be fast, runs inline with the request)
	QuizGen string `json:"quizGen"`

	// EggText is for easter-egg find/explain/whatif text generation
	EggText string `json:"eggText"`

	// TTS is for the "listen" action (audio output)
	TTS string `json:"tts"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			QuizGen: getEnvOrDefault("GEMINI_MODEL_QUIZ", "gemini-2.5-flash-preview-05-20"),
			EggText: getEnvOrDefault("GEMINI_MODEL_EGG", "gemini-2.5-flash-preview-05-20"),
			TTS:     getEnvOrDefault("GEMINI_MODEL_TTS", "gemini-2.5-flash-preview-tts"),
		},
		TimeoutMS: 15000, // quiz generation can take a while
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
