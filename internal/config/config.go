package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI   string
	HTTPAddress   string
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
	RecipientID   string
	VerifyToken   string
	CheckInterval time.Duration
	Lookahead     time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		HTTPAddress:   getEnvOrDefault("HTTP_ADDRESS", ":8080"),
		AccessToken:   os.Getenv("WA_ACCESS_TOKEN"),
		PhoneNumberID: os.Getenv("WA_PHONE_NUMBER_ID"),
		APIVersion:    getEnvOrDefault("WA_API_VERSION", "v18.0"),
		RecipientID:   os.Getenv("WA_RECIPIENT_ID"),
		VerifyToken:   os.Getenv("WA_VERIFY_TOKEN"),
		CheckInterval: getDurationOrDefault("CHECK_INTERVAL", 30*time.Minute),
		Lookahead:     getMinutesOrDefault("LOOKAHEAD_MINUTES", 35*time.Minute),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getMinutesOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return defaultValue
}
