package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CorsOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Database struct {
		DSN         string `yaml:"dsn"`
		Host        string `yaml:"host"`
		Port        string `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Assessment struct {
		CatalogCacheTTL   string `yaml:"catalog_cache_ttl"`
		AttemptSessionTTL string `yaml:"attempt_session_ttl"`
		EnforceTimeLimit  bool   `yaml:"enforce_time_limit"`
		TimeLimitGrace    string `yaml:"time_limit_grace"`
		SessionSweepCron  string `yaml:"session_sweep_cron"`
		SubmitRateLimit   int    `yaml:"submit_rate_limit"` // per learner per menit
	} `yaml:"assessment"`
}

// Default: nilai aman untuk lokal
func Default() Config {
	var cfg Config
	cfg.Server.Port = "3000"
	cfg.Server.CorsOrigins = []string{"http://localhost:5173"}
	cfg.Database.Port = "5432"
	cfg.Database.SSLMode = "disable"
	cfg.Assessment.CatalogCacheTTL = "10m"
	cfg.Assessment.AttemptSessionTTL = "6h"
	cfg.Assessment.TimeLimitGrace = "30s"
	cfg.Assessment.SessionSweepCron = "@every 15m"
	cfg.Assessment.SubmitRateLimit = 10
	return cfg
}

// Load: defaults -> YAML (kalau file ada) -> .env / ENV sistem.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
			log.Printf("[INFO] config loaded from %s", path)
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("[INFO] config file %s tidak ada, pakai defaults + ENV", path)
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	LoadEnv()
	applyEnv(&cfg)

	if cfg.Auth.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET belum diset!")
	}
	return cfg, nil
}

// LoadEnv memuat .env kalau ada; di luar itu ENV sistem yang dipakai.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] Tidak menemukan .env file, menggunakan ENV dari sistem")
	} else {
		log.Println("[INFO] .env file berhasil dimuat")
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	if v := GetEnv("CORS_ORIGINS"); v != "" {
		cfg.Server.CorsOrigins = splitCSV(v)
	}

	cfg.Auth.JWTSecret = GetEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.Database.DSN = GetEnv("DB_DSN", cfg.Database.DSN)
	cfg.Database.Host = GetEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = GetEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = GetEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = GetEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = GetEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = GetEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.AutoMigrate = GetEnvBool("AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Redis.Addr = GetEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := GetEnv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}

	cfg.Assessment.CatalogCacheTTL = GetEnv("CATALOG_CACHE_TTL", cfg.Assessment.CatalogCacheTTL)
	cfg.Assessment.AttemptSessionTTL = GetEnv("ATTEMPT_SESSION_TTL", cfg.Assessment.AttemptSessionTTL)
	cfg.Assessment.EnforceTimeLimit = GetEnvBool("ENFORCE_TIME_LIMIT", cfg.Assessment.EnforceTimeLimit)
	cfg.Assessment.TimeLimitGrace = GetEnv("TIME_LIMIT_GRACE", cfg.Assessment.TimeLimitGrace)
	cfg.Assessment.SessionSweepCron = GetEnv("SESSION_SWEEP_CRON", cfg.Assessment.SessionSweepCron)
	if v := GetEnv("SUBMIT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Assessment.SubmitRateLimit = n
		}
	}
}

// DatabaseDSN: DB_DSN kalau ada, selain itu dirakit dari DB_HOST dkk.
func (c Config) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=lms_assessments",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
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

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
