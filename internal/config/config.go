package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends for history and reports.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Bank struct {
		// URL wins over Path; with both empty the bank is read from Postgres.
		Path     string `yaml:"path"`
		URL      string `yaml:"url"`
		CacheTTL string `yaml:"cache_ttl"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"bank"`
	Storage struct {
		Backend string `yaml:"backend"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		DefaultQuestionCount int    `yaml:"default_question_count"`
		WeakThreshold        int    `yaml:"weak_threshold"`
		SessionTTL           string `yaml:"session_ttl"`
	} `yaml:"quiz"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Bank.Path = "data/questions.json"
	cfg.Bank.Timeout = "10s"
	cfg.Storage.Backend = BackendMemory
	cfg.SQLite.Path = "kentei.db"
	cfg.Quiz.DefaultQuestionCount = 5
	cfg.Quiz.WeakThreshold = 70
	cfg.Quiz.SessionTTL = "2h"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("storage backend %q requires redis.addr", c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("storage backend %q requires postgres.url", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("storage backend %q requires sqlite.path", c.Storage.Backend)
	}
	if c.Bank.Path == "" && c.Bank.URL == "" && c.Postgres.URL == "" {
		return fmt.Errorf("no question bank configured: set bank.path, bank.url or postgres.url")
	}
	if c.Quiz.DefaultQuestionCount < 1 {
		return fmt.Errorf("quiz.default_question_count must be at least 1, got %d", c.Quiz.DefaultQuestionCount)
	}
	if c.Quiz.WeakThreshold < 0 || c.Quiz.WeakThreshold > 100 {
		return fmt.Errorf("quiz.weak_threshold must be between 0 and 100, got %d", c.Quiz.WeakThreshold)
	}
	for name, raw := range map[string]string{
		"bank.cache_ttl":   c.Bank.CacheTTL,
		"bank.timeout":     c.Bank.Timeout,
		"redis.ttl":        c.Redis.TTL,
		"quiz.session_ttl": c.Quiz.SessionTTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
