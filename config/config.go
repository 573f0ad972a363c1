package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string
}

// Referral program defaults
const (
	DefaultPlatformFeePercent   = 10
	DefaultReferrerSharePercent = 30
	DefaultMinPayoutCents       = 2500
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),
	}

	return config, nil
}

// PlatformFeePercent returns the marketplace cut on a sale
func PlatformFeePercent() int {
	return envInt("PLATFORM_FEE_PERCENT", DefaultPlatformFeePercent)
}

// ReferrerSharePercent returns the referrer's share of the platform fee
func ReferrerSharePercent() int {
	return envInt("REFERRER_SHARE_PERCENT", DefaultReferrerSharePercent)
}

// MinPayoutCents returns the minimum payout request amount in cents
func MinPayoutCents() int64 {
	return int64(envInt("MIN_PAYOUT_CENTS", DefaultMinPayoutCents))
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
