package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Recommendation.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v; expected 30m", cfg.Recommendation.CacheTTL)
	}
	if cfg.Prioritization.Threshold != 0.1 {
		t.Errorf("Threshold = %v; expected 0.1", cfg.Prioritization.Threshold)
	}
	if cfg.Prioritization.Debounce != 100*time.Millisecond {
		t.Errorf("Debounce = %v; expected 100ms", cfg.Prioritization.Debounce)
	}
	if cfg.AuthCookieName != "auth_token" {
		t.Errorf("AuthCookieName = %q; expected auth_token", cfg.AuthCookieName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() com defaults retornou erro: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RECOMMENDER_PROVIDER", "OpenAI")
	t.Setenv("RECOMMENDATION_CACHE_TTL_MINUTES", "5")
	t.Setenv("PERSONALIZATION_DEDUPE_INFLIGHT", "true")
	t.Setenv("PRIORITIZATION_THRESHOLD", "0.25")
	t.Setenv("REDIS_DB", "não-é-número")

	cfg := LoadConfig()

	if cfg.Recommendation.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q; expected %q", cfg.Recommendation.Provider, ProviderOpenAI)
	}
	if cfg.Recommendation.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v; expected 5m", cfg.Recommendation.CacheTTL)
	}
	if !cfg.Recommendation.DedupeInFlight {
		t.Errorf("DedupeInFlight deveria ser true")
	}
	if cfg.Prioritization.Threshold != 0.25 {
		t.Errorf("Threshold = %v; expected 0.25", cfg.Prioritization.Threshold)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB inválido deveria cair no default, got %d", cfg.RedisDB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"provider inválido", func(c *Config) { c.Recommendation.Provider = "claude" }, true},
		{"threshold acima de 1", func(c *Config) { c.Prioritization.Threshold = 1.5 }, true},
		{"threshold negativo", func(c *Config) { c.Prioritization.Threshold = -0.1 }, true},
		{"ttl zero", func(c *Config) { c.Recommendation.CacheTTL = 0 }, true},
		{"buffer zero", func(c *Config) { c.Analytics.BufferSize = 0 }, true},
		{"provider none", func(c *Config) { c.Recommendation.Provider = ProviderNone }, false},
	}

	for _, test := range tests {
		cfg := LoadConfig()
		test.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%s: Validate() error = %v; wantErr %v", test.name, err, test.wantErr)
		}
	}
}
