package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost  string
	ServerPort  int
	PubEndpoint string
}

func LoadConfig() Config {
	godotenv.Load(".env")
	return Config{
		ServerHost:  envOr("JONX_HOST", "0.0.0.0"),
		ServerPort:  envIntOr("JONX_PORT", 8000),
		PubEndpoint: os.Getenv("JONX_PUB_ENDPOINT"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
