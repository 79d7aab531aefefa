package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMonthlyBudgetCents is the budget created on first dashboard
	// view of a month (3000.00).
	DefaultMonthlyBudgetCents int64 = 300000

	// DefaultRecipeAPIBaseURL is the Spoonacular-compatible upstream.
	DefaultRecipeAPIBaseURL = "https://api.spoonacular.com"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Sessions
	SessionTTL time.Duration

	// Recipe search upstream
	RecipeAPIKey     string
	RecipeAPIBaseURL string
	RecipeAPITimeout time.Duration

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AMQP (optional activity audit stream)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pantrypal.db"),

		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		RecipeAPIKey:     getEnv("RECIPE_API_KEY", ""),
		RecipeAPIBaseURL: getEnv("RECIPE_API_BASE_URL", DefaultRecipeAPIBaseURL),
		RecipeAPITimeout: getEnvDuration("RECIPE_API_TIMEOUT", 10*time.Second),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pantrypal"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "user_activity"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if c.RecipeAPIBaseURL == "" {
		errors = append(errors, "recipe API base URL cannot be empty")
	} else if u, err := url.Parse(c.RecipeAPIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid recipe API base URL '%s': %v", c.RecipeAPIBaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid recipe API base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.RecipeAPITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid recipe API timeout %v: must be at least 1 second", c.RecipeAPITimeout))
	}

	// Google sign-in is optional, but partial configuration is a mistake.
	googleVars := 0
	if c.GoogleClientID != "" {
		googleVars++
	}
	if c.GoogleClientSecret != "" {
		googleVars++
	}
	if c.GoogleRedirectURL != "" {
		googleVars++
	}
	if googleVars > 0 && googleVars < 3 {
		errors = append(errors, "GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL must all be set to enable Google sign-in")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// GoogleEnabled reports whether the Google sign-in flow is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
