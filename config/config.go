// Package config provides configuration for the relay.
package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultPersona is the system persona prepended to every completion request
// when CHAT_PERSONA is unset. Mission screens layer their own system text on
// top of it per request.
const DefaultPersona = `You are the Starcadet AI, the friendly onboard computer of a spaceship crewed by a young explorer.
Keep explanations simple, warm, and full of space adventure.
Always encourage curiosity and bravery, and never criticize.
Format your response in short paragraphs, each 2-3 sentences max, with a blank line between paragraphs.`

// Config holds the relay configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// History storage; empty DSN means in-memory only
	DatabaseURL string

	// Completion provider
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	LLMTimeout    time.Duration

	// Chat behavior
	Persona             string
	MaxCompletionTokens int
	StreamReplies       bool

	// Content safety policy; empty path means the built-in policy
	SafetyPolicyPath string

	// Media catalog
	MediaDir string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("PORT", 3001),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:               getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		Persona:             getEnv("CHAT_PERSONA", DefaultPersona),
		MaxCompletionTokens: getEnvInt("MAX_COMPLETION_TOKENS", 180),
		StreamReplies:       getEnvBool("STREAM_REPLIES", false),
		SafetyPolicyPath:    getEnv("SAFETY_POLICY_PATH", ""),
		MediaDir:            getEnv("MEDIA_DIR", "videos"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
