// Package config holds the runtime configuration for the negotiator.
package config

// Config is the root configuration.
type Config struct {
	Session  SessionConfig `json:"session"`
	Model    ModelConfig   `json:"model"`
	Emotion  EmotionConfig `json:"emotion"`
	Speech   SpeechConfig  `json:"speech"`
	Storage  StorageConfig `json:"storage"`
	Stream   StreamConfig  `json:"stream"`
	LogLevel string        `json:"logLevel" envconfig:"LOG_LEVEL"`
}

// SessionConfig controls session presentation and pacing.
type SessionConfig struct {
	UserTitle         string  `json:"userTitle" envconfig:"USER_TITLE"`
	AgentChatter      bool    `json:"agentChatter" envconfig:"AGENT_CHATTER"`
	ChatterChance     float64 `json:"chatterChance" envconfig:"CHATTER_CHANCE"`
	FirstAgentDelayMs int     `json:"firstAgentDelayMs" envconfig:"FIRST_AGENT_DELAY_MS"`
	ReplyDelayMs      int     `json:"replyDelayMs" envconfig:"REPLY_DELAY_MS"`
}

// ModelConfig selects the text generation backend.
type ModelConfig struct {
	APIKey      string  `json:"apiKey" envconfig:"GROQ_API_KEY"`
	APIBase     string  `json:"apiBase" envconfig:"GROQ_API_BASE"`
	Name        string  `json:"name" envconfig:"MODEL"`
	MaxTokens   int     `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature float64 `json:"temperature" envconfig:"TEMPERATURE"`
}

// EmotionConfig selects the emotion classification backend.
type EmotionConfig struct {
	APIKey  string `json:"apiKey" envconfig:"HUME_API_KEY"`
	APIBase string `json:"apiBase" envconfig:"HUME_API_BASE"`
}

// SpeechConfig selects the TTS bridge.
type SpeechConfig struct {
	Enabled   bool   `json:"enabled" envconfig:"SPEECH_ENABLED"`
	BridgeURL string `json:"bridgeUrl" envconfig:"SPEECH_BRIDGE_URL"`
}

// StorageConfig locates the transcript database.
type StorageConfig struct {
	DBPath string `json:"dbPath" envconfig:"DB_PATH"`
}

// StreamConfig controls the Kafka event stream.
type StreamConfig struct {
	Enabled bool   `json:"enabled" envconfig:"STREAM_ENABLED"`
	Brokers string `json:"brokers" envconfig:"STREAM_BROKERS"`
	Topic   string `json:"topic" envconfig:"STREAM_TOPIC"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			UserTitle:         "Policy Advisor",
			ChatterChance:     0.7,
			FirstAgentDelayMs: 2000,
			ReplyDelayMs:      1000,
		},
		Model: ModelConfig{
			APIBase:     "https://api.groq.com/openai/v1",
			Name:        "llama3-70b-8192",
			MaxTokens:   300,
			Temperature: 0.7,
		},
		Emotion: EmotionConfig{
			APIBase: "https://api.hume.ai/v0",
		},
		Speech: SpeechConfig{
			BridgeURL: "http://127.0.0.1:5002",
		},
		Stream: StreamConfig{
			Brokers: "localhost:9092",
			Topic:   "negotiation-events",
		},
		LogLevel: "info",
	}
}
