package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	AI      AIConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	// Dir is the root of the file-per-paper JSON store.
	Dir string
	// DatabaseURL, when set, switches the paper store to Postgres.
	DatabaseURL string
}

type AIConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvMulti([]string{"PORT", "SERVER_PORT"}, "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
		},
		Storage: StorageConfig{
			Dir:         getEnv("STORAGE_DIR", "data/papers"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		AI: AIConfig{
			Endpoint: getEnv("AI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			Model:    getEnv("AI_MODEL", "gpt-4o-mini"),
			APIKey:   getEnv("AI_API_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
	}
}

func getEnvMulti(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
