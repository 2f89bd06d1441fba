// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// Reasoning service (Gemini REST API).
	GeminiAPIKey   string
	GeminiModel    string
	EmbeddingModel string

	// Google Workspace access for calendar and mail tools.
	GoogleAccessToken string
	CalendarID        string
	HRManagerEmail    string

	// Agent loop and slot search tuning.
	FitThreshold    float64
	MaxAgentCycles  int
	AgentRunTimeout time.Duration
	Scheduling      SchedulingConfig
}

// SchedulingConfig controls the free-slot search window.
type SchedulingConfig struct {
	BusinessOpenHour  int
	BusinessCloseHour int
	SearchHorizon     time.Duration
	DefaultDuration   time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/hireagent.db"),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),

		GoogleAccessToken: getEnv("GOOGLE_ACCESS_TOKEN", ""),
		CalendarID:        getEnv("CALENDAR_ID", "primary"),
		HRManagerEmail:    getEnv("HR_MANAGER_EMAIL", ""),

		FitThreshold:    getEnvFloat("FIT_THRESHOLD", 0.7),
		MaxAgentCycles:  getEnvInt("MAX_AGENT_CYCLES", 10),
		AgentRunTimeout: getEnvDuration("AGENT_RUN_TIMEOUT", 5*time.Minute),
		Scheduling: SchedulingConfig{
			BusinessOpenHour:  getEnvInt("BUSINESS_OPEN_HOUR", 9),
			BusinessCloseHour: getEnvInt("BUSINESS_CLOSE_HOUR", 17),
			SearchHorizon:     getEnvDuration("SEARCH_HORIZON", 7*24*time.Hour),
			DefaultDuration:   getEnvDuration("INTERVIEW_DURATION", 60*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MaxAgentCycles <= 0 {
		return fmt.Errorf("MAX_AGENT_CYCLES must be > 0")
	}
	if c.FitThreshold < 0 || c.FitThreshold > 1 {
		return fmt.Errorf("FIT_THRESHOLD must be in [0, 1]")
	}
	s := c.Scheduling
	if s.BusinessOpenHour < 0 || s.BusinessCloseHour > 24 || s.BusinessOpenHour >= s.BusinessCloseHour {
		return fmt.Errorf("business hours window %d-%d is invalid", s.BusinessOpenHour, s.BusinessCloseHour)
	}
	if s.SearchHorizon <= 0 {
		return fmt.Errorf("SEARCH_HORIZON must be > 0")
	}
	if s.DefaultDuration <= 0 {
		return fmt.Errorf("INTERVIEW_DURATION must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
