package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultPort         = "3001"
	DefaultModel        = "gemini-3-flash-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateInterval = 2 * time.Second
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Port         string
	GeminiAPIKey string
	GeminiModel  string
	HTTPTimeout  time.Duration
	RateInterval time.Duration
}

// Load は環境変数から設定を読み込み、検証して返すのだ！
// .env は任意で、変数が環境から直接与えられていれば無くてもよい。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         envutil.GetEnv("PORT", DefaultPort),
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		HTTPTimeout:  parseDuration(envutil.GetEnv("HTTP_TIMEOUT", ""), DefaultHTTPTimeout),
		RateInterval: parseDuration(envutil.GetEnv("RATE_INTERVAL", ""), DefaultRateInterval),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("config: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
