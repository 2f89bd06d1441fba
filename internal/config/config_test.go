package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.FitThreshold != 0.7 {
		t.Errorf("Expected default fit threshold 0.7, got %v", cfg.FitThreshold)
	}
	if cfg.MaxAgentCycles != 10 {
		t.Errorf("Expected default max cycles 10, got %d", cfg.MaxAgentCycles)
	}
	if cfg.Scheduling.BusinessOpenHour != 9 || cfg.Scheduling.BusinessCloseHour != 17 {
		t.Errorf("Unexpected business hours: %+v", cfg.Scheduling)
	}
	if cfg.Scheduling.SearchHorizon != 7*24*time.Hour {
		t.Errorf("Expected 7-day horizon, got %v", cfg.Scheduling.SearchHorizon)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_AGENT_CYCLES", "3")
	t.Setenv("FIT_THRESHOLD", "0.5")
	t.Setenv("INTERVIEW_DURATION", "45m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.MaxAgentCycles != 3 || cfg.FitThreshold != 0.5 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Scheduling.DefaultDuration != 45*time.Minute {
		t.Errorf("Expected 45m duration, got %v", cfg.Scheduling.DefaultDuration)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_AGENT_CYCLES", "many")
	t.Setenv("FIT_THRESHOLD", "very high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxAgentCycles != 10 || cfg.FitThreshold != 0.7 {
		t.Errorf("Expected fallbacks for malformed values, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:           "8080",
			DBPath:         "./x.db",
			FitThreshold:   0.7,
			MaxAgentCycles: 10,
			Scheduling: SchedulingConfig{
				BusinessOpenHour:  9,
				BusinessCloseHour: 17,
				SearchHorizon:     7 * 24 * time.Hour,
				DefaultDuration:   time.Hour,
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero cycles", func(c *Config) { c.MaxAgentCycles = 0 }},
		{"threshold above 1", func(c *Config) { c.FitThreshold = 1.5 }},
		{"inverted hours", func(c *Config) { c.Scheduling.BusinessOpenHour = 18 }},
		{"zero horizon", func(c *Config) { c.Scheduling.SearchHorizon = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
