package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt is used when neither the config file nor the request
// supplies a system directive.
const DefaultSystemPrompt = "You are Nova, a concise and helpful assistant."

// Config holds the application configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Database struct {
		Driver   string `yaml:"driver"` // "postgres" or "sqlite"
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
		Path     string `yaml:"path"` // sqlite file, default data/nova.db
	} `yaml:"database"`
	Chat struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		// Pointer so an explicit 0 survives defaulting.
		Temperature        *float32 `yaml:"temperature"`
		MaxTokens          uint32   `yaml:"max_tokens"`
		HistoryWindow      int     `yaml:"history_window"`
		SystemPrompt       string  `yaml:"system_prompt"`
		IdleTimeoutSeconds int     `yaml:"idle_timeout_seconds"`
	} `yaml:"chat"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Uploads struct {
		Dir       string `yaml:"dir"`
		MaxSizeMB int64  `yaml:"max_size_mb"`
	} `yaml:"uploads"`
}

// GlobalConfig is the global configuration instance.
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// IdleTimeout returns the upstream idle timeout as a duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Chat.IdleTimeoutSeconds) * time.Second
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig.
// Environment variables override file values for secrets so deployments can
// keep keys out of the config file.
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		return err
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		GlobalConfig.Chat.APIKey = v
	}
	if v := os.Getenv("NOVA_JWT_SECRET"); v != "" {
		GlobalConfig.Auth.JWTSecret = v
	}

	applyDefaults(&GlobalConfig)
	return validate(&GlobalConfig)
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/nova.db"
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = "https://api.openai.com/v1"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "gpt-4o"
	}
	if c.Chat.Temperature == nil {
		t := float32(0.7)
		c.Chat.Temperature = &t
	}
	if c.Chat.HistoryWindow == 0 {
		c.Chat.HistoryWindow = 12
	}
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = DefaultSystemPrompt
	}
	if c.Chat.IdleTimeoutSeconds == 0 {
		c.Chat.IdleTimeoutSeconds = 30
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 72
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "data/uploads"
	}
	if c.Uploads.MaxSizeMB == 0 {
		c.Uploads.MaxSizeMB = 20
	}
}

func validate(c *Config) error {
	if c.Chat.APIKey == "" {
		return fmt.Errorf("chat.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database.host, database.user and database.dbname are required for postgres")
		}
		if c.Database.Port == "" {
			c.Database.Port = "5432"
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Chat.HistoryWindow < 1 {
		return fmt.Errorf("chat.history_window must be positive")
	}
	return nil
}
