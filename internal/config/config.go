package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL     string `yaml:"ttl"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"quiz"`
	Results struct {
		Dir string `yaml:"dir"`
	} `yaml:"results"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path. A missing file yields defaults so the
// service can run from environment variables alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv loads .env into the process environment if present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv("QUIZ_DATA_DIR"); v != "" {
		c.Quiz.DataDir = v
	}
	if v := os.Getenv("RESULTS_DIR"); v != "" {
		c.Results.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func (c *Config) applyDefaults() {
	if c.Quiz.DataDir == "" {
		c.Quiz.DataDir = "data"
	}
	if c.Results.Dir == "" {
		c.Results.Dir = "results"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
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
