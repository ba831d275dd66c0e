package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Enabled reports whether page snapshots should be archived.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type LinkedIn struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// LoginRedirectURI is the callback for signing in with LinkedIn.
	LoginRedirectURI string
	APIURL           string
}

type DeepSeek struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Scraper struct {
	Tick               string
	Concurrency        int
	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	OptimizeTimeout    time.Duration
	PublishTimeout     time.Duration
	PublishMaxRetries  int
	PublishBaseDelay   time.Duration
}

type Config struct {
	PostgresURI string
	RedisURI    string
	FrontendURL string
	ListenAddr  string
	SecretKey   string
	CookieName  string
	LinkedIn    LinkedIn
	DeepSeek    DeepSeek
	R2          R2
	Scraper     Scraper
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":3000"),
		SecretKey:   getEnv("SECRET_KEY", ""),
		CookieName:  getEnv("COOKIE_NAME", "scrapeflow_session"),
		LinkedIn: LinkedIn{
			ClientID:         getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret:     getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:      getEnv("LINKEDIN_REDIRECT_URI", "http://localhost:3000/auth/linkedin/callback"),
			LoginRedirectURI: getEnv("LINKEDIN_LOGIN_REDIRECT_URI", "http://localhost:3000/login/callback"),
			APIURL:           getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
		},
		DeepSeek: DeepSeek{
			APIKey:  getEnv("DEEPSEEK_API_KEY", ""),
			BaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			Model:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		Scraper: Scraper{
			Tick:               getEnv("SCRAPE_TICK", "@every 00h05m00s"),
			Concurrency:        getEnvInt("SCRAPE_CONCURRENCY", 4),
			FetchTimeout:       getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			FetchRatePerSecond: getEnvFloat("FETCH_RATE_PER_SECOND", 2),
			OptimizeTimeout:    getEnvDuration("OPTIMIZE_TIMEOUT", 2*time.Minute),
			PublishTimeout:     getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
			PublishMaxRetries:  getEnvInt("PUBLISH_MAX_RETRIES", 3),
			PublishBaseDelay:   getEnvDuration("PUBLISH_BASE_DELAY", time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Info("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Info("invalid number in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Info("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}
