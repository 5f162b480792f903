package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	WebRisk struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"web_risk"`
	Serper struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"serper"`
	Firecrawl struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"firecrawl"`
	LLM struct {
		Providers []LLMProviderConfig `yaml:"providers"`
	} `yaml:"llm"`
	Email struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Username    string   `yaml:"username"`
		Password    string   `yaml:"password"`
		From        string   `yaml:"from"`
		AdminEmails []string `yaml:"admin_emails"`
	} `yaml:"email"`
	Telegram struct {
		Enabled     bool   `yaml:"enabled"`
		BotToken    string `yaml:"bot_token"`
		AdminChatID int64  `yaml:"admin_chat_id"`
	} `yaml:"telegram"`
	Pipeline struct {
		Workers   int `yaml:"workers"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"pipeline"`
	Notifications struct {
		RenotifyOnChange bool `yaml:"renotify_on_change"`
	} `yaml:"notifications"`
}

// LLMProviderConfig configures a single LLM provider instance.
type LLMProviderConfig struct {
	Type      string `yaml:"type"` // "groq" or "gemini"
	APIKey    string `yaml:"api_key"`
	ModelName string `yaml:"model_name"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Pipeline.Workers <= 0 {
		config.Pipeline.Workers = 4
	}
	if config.Pipeline.QueueSize <= 0 {
		config.Pipeline.QueueSize = 256
	}

	return config, nil
}
