package config

import "os"

// Config holds environment-driven configuration. The .env file, if any,
// is loaded by cmd/api before Load is called.
type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	StripeSecretKey string
	Currency        string
	RedisAddr       string
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("STORE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	currency := os.Getenv("STRIPE_CURRENCY")
	if currency == "" {
		currency = "usd"
	}

	return Config{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        currency,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}
}
