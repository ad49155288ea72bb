package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported backends for the session cookie store and the answer store.
const (
	SessionBackendCookie   = "cookie"
	SessionBackendPostgres = "postgres"

	AnswerStoreMemory   = "memory"
	AnswerStoreRedis    = "redis"
	AnswerStorePostgres = "postgres"
)

type Config struct {
	Env         string
	Port        string
	LogLevel    string
	UILang      string
	FrontendURL string
	DatabaseURL string

	Session     SessionConfig
	Gemini      GeminiConfig
	AnswerStore AnswerStoreConfig
	Redis       RedisConfig
	Upload      UploadConfig
}

type SessionConfig struct {
	Name    string
	Secret  string
	Backend string
	Secure  bool
	MaxAge  int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type AnswerStoreConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type UploadConfig struct {
	MaxBytes          int64
	AllowedExtensions []string
	RequireSubject    bool
	Subjects          []string
}

// LoadEnvFile loads a .env file if one exists. A missing file is not an error;
// the process then relies on the real environment.
func LoadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}
	return nil
}

// SetDefaults registers every key with its default so AutomaticEnv can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("ui_lang", "en")
	v.SetDefault("frontend_url", "")
	v.SetDefault("database_url", "")

	v.SetDefault("session.name", "revisionai_session")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.backend", SessionBackendCookie)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.max_age", 86400*7)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("answer_store", AnswerStoreMemory)
	v.SetDefault("answer_ttl", 24*time.Hour)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("max_upload_bytes", int64(32<<20))
	v.SetDefault("allowed_extensions", []string{"pdf"})
	v.SetDefault("require_subject", false)
	v.SetDefault("subjects", []string{})
}

// Load builds a Config from v. Nested keys map to upper-case environment
// variables with dots replaced by underscores (session.secret -> SESSION_SECRET).
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("revisionai")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:         strings.ToLower(v.GetString("env")),
		Port:        v.GetString("port"),
		LogLevel:    strings.ToLower(v.GetString("log_level")),
		UILang:      v.GetString("ui_lang"),
		FrontendURL: strings.TrimSuffix(v.GetString("frontend_url"), "/"),
		DatabaseURL: v.GetString("database_url"),
		Session: SessionConfig{
			Name:    v.GetString("session.name"),
			Secret:  v.GetString("session.secret"),
			Backend: strings.ToLower(v.GetString("session.backend")),
			Secure:  v.GetBool("session.secure"),
			MaxAge:  v.GetInt("session.max_age"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		AnswerStore: AnswerStoreConfig{
			Backend: strings.ToLower(v.GetString("answer_store")),
			TTL:     v.GetDuration("answer_ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Upload: UploadConfig{
			MaxBytes:          v.GetInt64("max_upload_bytes"),
			AllowedExtensions: lowerAll(splitList(v.Get("allowed_extensions"))),
			RequireSubject:    v.GetBool("require_subject"),
			Subjects:          splitList(v.Get("subjects")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendCookie, SessionBackendPostgres:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	switch c.AnswerStore.Backend {
	case AnswerStoreMemory, AnswerStoreRedis, AnswerStorePostgres:
	default:
		return fmt.Errorf("unknown answer store %q", c.AnswerStore.Backend)
	}
	if (c.Session.Backend == SessionBackendPostgres || c.AnswerStore.Backend == AnswerStorePostgres) && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set when a postgres backend is selected")
	}
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET must be set in production")
		}
		// Development only: sessions do not survive a restart.
		c.Session.Secret = uuid.NewString() + uuid.NewString()
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = []string{"pdf"}
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	// Redis reads a zero expiry as "keep forever" and postgres would store
	// rows that are already expired.
	if c.AnswerStore.TTL <= 0 {
		return fmt.Errorf("answer_ttl must be positive, got %s", c.AnswerStore.TTL)
	}
	return nil
}

// splitList accepts a YAML list or a comma separated environment value.
func splitList(raw interface{}) []string {
	var items []string
	switch val := raw.(type) {
	case []string:
		items = val
	case []interface{}:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	case string:
		items = strings.Split(val, ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func lowerAll(items []string) []string {
	for i, item := range items {
		items[i] = strings.ToLower(strings.TrimPrefix(item, "."))
	}
	return items
}
