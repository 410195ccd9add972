package config

import (
	"fmt"
	"os"
)

type Config struct {
	ServerPort    string
	AppEnv        string
	QuizStore     string // "postgres" or "memory"
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	PublicBaseURL string
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "production"),
		QuizStore:     getEnv("QUIZ_STORE", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "cahootklone"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
