package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"NewsDesk/internal/domain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
judges:
  provider: gemini
  print:
    enabled: false
dedup:
  similarityCutoff: 0.8
naver:
  clientId: file-id
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSDESK_CONFIG", path)
	t.Setenv("NAVER_CLIENT_ID", "env-id")

	cfg := Load()

	if cfg.Judges.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Judges.Provider)
	}
	if cfg.Judges.Print.IsEnabled() {
		t.Fatal("file must be able to disable the print stage")
	}
	if cfg.Judges.Print.Threshold != 0.70 {
		t.Fatalf("unset threshold must keep default, got %v", cfg.Judges.Print.Threshold)
	}
	if cfg.Dedup.SimilarityCutoff != 0.8 {
		t.Fatalf("expected cutoff 0.8, got %v", cfg.Dedup.SimilarityCutoff)
	}
	if cfg.Naver.ClientID != "env-id" {
		t.Fatalf("env must override file, got %s", cfg.Naver.ClientID)
	}
	if len(cfg.Sources) != 10 {
		t.Fatalf("silent file must keep default sources, got %d", len(cfg.Sources))
	}
	if cfg.Weights != (WeightConfig{Print: 0.6, Practicality: 0.3, SourceTier: 0.1}) {
		t.Fatalf("unexpected weights %+v", cfg.Weights)
	}
}

func TestLoadFallsBackOnUnreadableFile(t *testing.T) {
	t.Setenv("NEWSDESK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if len(cfg.Sources) == 0 {
		t.Fatal("missing file must fall back to defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fallback config must validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty sources", func(c *Config) { c.Sources = nil }, "sources"},
		{"source without domain", func(c *Config) { c.Sources[0].Domain = "" }, "sources[0]"},
		{"tier out of range", func(c *Config) { c.Sources[1].Tier = 1.5 }, "sources[1].tier"},
		{"print threshold out of range", func(c *Config) { c.Judges.Print.Threshold = 1.2 }, "judges.print.threshold"},
		{"relevance threshold negative", func(c *Config) { c.Judges.Relevance.Threshold = -0.1 }, "judges.relevance.threshold"},
		{"zero concurrency", func(c *Config) { c.Judges.Concurrency = 0 }, "judges.concurrency"},
		{"unknown fallback", func(c *Config) { c.Judges.Fallback = "maybe" }, "judges.fallback"},
		{"unknown provider", func(c *Config) { c.Judges.Provider = "oracle" }, "judges.provider"},
		{"zero cutoff", func(c *Config) { c.Dedup.SimilarityCutoff = 0 }, "dedup.similarityCutoff"},
		{"weight out of range", func(c *Config) { c.Weights.Print = 1.4 }, "weights.print"},
		{"weights not summing to one", func(c *Config) { c.Weights = WeightConfig{Print: 0.5, Practicality: 0.3, SourceTier: 0.1} }, "weights"},
		{"bad run timeout", func(c *Config) { c.RunTimeout = "soon" }, "runTimeout"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cfgErr *domain.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestStageConfigIsEnabled(t *testing.T) {
	t.Parallel()

	var s StageConfig
	if !s.IsEnabled() {
		t.Fatal("unset flag must count as enabled")
	}
	off := false
	s.Enabled = &off
	if s.IsEnabled() {
		t.Fatal("explicit false must disable the stage")
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	var c Config
	if got := c.Timeout(); got != defaultRunTimeout {
		t.Fatalf("expected default timeout, got %v", got)
	}
	c.RunTimeout = "90s"
	if got := c.Timeout(); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	c.RunTimeout = "soon"
	if got := c.Timeout(); got != defaultRunTimeout {
		t.Fatalf("malformed timeout must fall back, got %v", got)
	}
}

func TestSearchKeywordsDeduplicates(t *testing.T) {
	t.Parallel()

	cfg := Config{Search: SearchConfig{Groups: []KeywordGroup{
		{Name: "세무", Keywords: []string{"세금", "국세청"}},
		{Name: "회계", Keywords: []string{"공시", "세금"}},
	}}}

	got := cfg.SearchKeywords()
	want := []string{"세금", "국세청", "공시"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSourceViews(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	domains := cfg.AllowedDomains()
	if domains["조선일보"] != "chosun.com" {
		t.Fatalf("unexpected domain map: %v", domains["조선일보"])
	}
	tiers := cfg.SourceTiers()
	if tiers["머니투데이"] != 0.1 {
		t.Fatalf("unexpected tier: %v", tiers["머니투데이"])
	}
	if len(domains) != len(cfg.Sources) || len(tiers) != len(cfg.Sources) {
		t.Fatal("views must cover every source")
	}
}
