// internal/config/config.go
//
// Server configuration from environment variables. In development a `.env`
// file is loaded first (see main.go), so the same names work in both places.
//
// Variables (defaults in parentheses):
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/app.db),
//   JWT_SECRET (dev_secret_change_me), JWT_EXPIRES_DAYS (14),
//   COOKIE_NAME (mastermind_token), CLIENT_ORIGIN (http://localhost:5173),
//   NODE_ENV (""; "production" enables Secure/SameSite=None cookies),
//   DAILY_SALT (local_dev_salt), SESSION_IDLE_MINUTES (60).
//
// PALETTE_FILE is read by internal/palette.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all server settings.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
	DailySalt    string
	SessionIdle  time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiry:    time.Duration(getInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "mastermind_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		SessionIdle:  time.Duration(getInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getInt parses k as a positive integer, falling back to def.
func getInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}
