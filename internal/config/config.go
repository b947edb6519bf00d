package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	defaultBaseURL    = "localhost:5000"
	defaultSQLitePath = "travel_journal.db"
)

type Config struct {
	// Server-side settings
	DatabaseDSN    string        `env:"DATABASE_URL"`
	SecretKey      string        `env:"SECRET_KEY"`
	Port           string        `env:"PORT"`
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	PhotoMaxSizeMB int           `env:"PHOTO_MAX_MB" envDefault:"5"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)

	// SecretGenerated: ключ сгенерирован на старте (сессии не переживут рестарт).
	SecretGenerated bool `env:"-"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres URL или sqlite:///path)")
	flag.StringVar(&cfg.SecretKey, "secret", cfg.SecretKey, "секрет для подписи cookie сессии")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "адрес Redis для хранения сессий (пусто - сессии в БД)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the journal server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to session token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.SecretKey == "" {
		cfg.SecretKey = randomSecret()
		cfg.SecretGenerated = true
	}
	// PORT (как на PaaS) используется, только если BASE_URL не задан
	if cfg.BaseURL == "" && cfg.Port != "" {
		cfg.BaseURL = "0.0.0.0:" + cfg.Port
	}
	// BaseURL должен быть в виде "address:port" (без схемы и пути), иначе - дефолт.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.PhotoMaxSizeMB <= 0 {
		cfg.PhotoMaxSizeMB = 5
	}

	if cfg.TokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.TokenFile = filepath.Join(dir, "TravelJournal", "session_token")
		}
	}
}

// IsProduction: включает production-логгер и тихий логгер gorm.
func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(cfg.Environment, "production")
}

// PhotoMaxBytes: лимит фото в байтах.
func (cfg *Config) PhotoMaxBytes() int64 {
	return int64(cfg.PhotoMaxSizeMB) * 1024 * 1024
}

// SQLiteFallbackPath: путь к встроенной БД, если DATABASE_URL не задан.
func SQLiteFallbackPath() string { return defaultSQLitePath }

func randomSecret() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "dev-secret-key"
	}
	return hex.EncodeToString(b)
}
