package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the salesbot service
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Session   SessionConfig   `mapstructure:"session"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds lead database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// KnowledgeConfig holds vector store and embeddings configuration
type KnowledgeConfig struct {
	QdrantURL      string  `mapstructure:"qdrant_url"`
	QdrantAPIKey   string  `mapstructure:"qdrant_api_key"`
	Collection     string  `mapstructure:"collection"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	TopK           int     `mapstructure:"top_k"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
	SnippetLimit   int     `mapstructure:"snippet_limit"`
	TimeoutSecs    int     `mapstructure:"timeout_secs"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// ChatConfig holds conversation-shaping configuration
type ChatConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
	PromptTurns  int `mapstructure:"prompt_turns"`
	TurnLimit    int `mapstructure:"turn_limit"`
}

// SessionConfig holds in-memory session lifecycle configuration
type SessionConfig struct {
	TTLMinutes   int `mapstructure:"ttl_minutes"`
	SweepMinutes int `mapstructure:"sweep_minutes"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SALESBOT")
	v.AutomaticEnv()

	// The completion key usually arrives via the environment, not the file.
	v.BindEnv("llm.api_key", "SALESBOT_LLM_API_KEY", "OPENAI_API_KEY")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.path", "./data/leads.db")

	v.SetDefault("knowledge.qdrant_url", "http://localhost:6333")
	v.SetDefault("knowledge.qdrant_api_key", "")
	v.SetDefault("knowledge.collection", "wafam_knowledge")
	v.SetDefault("knowledge.embedding_model", "text-embedding-3-small")
	v.SetDefault("knowledge.top_k", 2)
	v.SetDefault("knowledge.score_threshold", 0.8)
	v.SetDefault("knowledge.snippet_limit", 400)
	v.SetDefault("knowledge.timeout_secs", 15)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.max_tokens", 250)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout_secs", 60)

	v.SetDefault("chat.history_limit", 8)
	v.SetDefault("chat.prompt_turns", 3)
	v.SetDefault("chat.turn_limit", 150)

	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("session.sweep_minutes", 5)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// KnowledgeTimeout returns the retrieval call timeout.
func (c *Config) KnowledgeTimeout() time.Duration {
	return time.Duration(c.Knowledge.TimeoutSecs) * time.Second
}

// LLMTimeout returns the completion call timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

// SessionTTL returns the idle session expiry; zero disables the sweep.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// SessionSweep returns the idle sweep interval.
func (c *Config) SessionSweep() time.Duration {
	return time.Duration(c.Session.SweepMinutes) * time.Minute
}
