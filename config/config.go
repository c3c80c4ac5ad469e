package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	WCLClientID     string
	WCLClientSecret string
	WCLEndpoint     string
	WCLTokenURL     string

	CacheDir string
	CacheTTL time.Duration

	PresetsFile   string
	AbilitiesFile string

	SentryDSN       string
	RecaptchaSecret string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	godotenv.Load(".env")

	cfg := &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", "127.0.0.1:5555"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		WCLClientID:     os.Getenv("WCL_CLIENT_ID"),
		WCLClientSecret: os.Getenv("WCL_CLIENT_SECRET"),
		WCLEndpoint:     getEnv("WCL_ENDPOINT", "https://www.warcraftlogs.com/api/v2/client"),
		WCLTokenURL:     getEnv("WCL_TOKEN_URL", "https://www.warcraftlogs.com/oauth/token"),
		CacheDir:        getEnv("CACHE_DIR", "./_cachedata"),
		CacheTTL:        time.Hour,
		PresetsFile:     os.Getenv("PRESETS_FILE"),
		AbilitiesFile:   os.Getenv("ABILITIES_FILE"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		RecaptchaSecret: os.Getenv("RECAPTCHA_SECRET"),
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(err, "CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

// Workers reads ANALYSIS_WORKERS, the number of fights replayed at once.
func Workers() int {
	if v, err := strconv.Atoi(os.Getenv("ANALYSIS_WORKERS")); err == nil && v > 0 {
		return v
	}
	return 8
}

// RequireWCL reports an error when Warcraft Logs credentials are missing.
func (cfg *Config) RequireWCL() error {
	if cfg.WCLClientID == "" || cfg.WCLClientSecret == "" {
		return errors.New("WCL_CLIENT_ID and WCL_CLIENT_SECRET are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
