package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr string // カートとレートキャッシュ

	JWTSecret string // JWT署名シークレット

	BaseCurrency       string // 保存に使うベース通貨
	ExchangeRateAPIKey string // exchangerate-api のキー（無ければレート1で表示）

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Loadは環境変数から読む
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "store"),

		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		BaseCurrency:       getenv("BASE_CURRENCY", "USD"),
		ExchangeRateAPIKey: os.Getenv("EXCHANGE_RATE_API_KEY"),

		SMTPHost: getenv("SMTP_HOST", "localhost"),
		SMTPPort: getenv("SMTP_PORT", "25"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "store@example.com"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
