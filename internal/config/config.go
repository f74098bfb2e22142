package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AuthURL     string
	ProductsURL string
	CartURL     string
	OrdersURL   string

	LocalStoreBackend string
	LocalStorePath    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		AuthURL:     EnvDefault("AUTH_URL", "http://localhost:8081"),
		ProductsURL: EnvDefault("PRODUCTS_URL", "http://localhost:8082"),
		CartURL:     EnvDefault("CART_URL", "http://localhost:8083"),
		OrdersURL:   EnvDefault("ORDERS_URL", "http://localhost:8084"),

		LocalStoreBackend: EnvDefault("LOCAL_STORE", "sqlite"),
		LocalStorePath:    EnvDefault("LOCAL_STORE_PATH", "storefront.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
