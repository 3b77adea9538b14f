package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"NewsDesk/internal/domain"
)

const (
	defaultTimezone      = "Asia/Seoul"
	defaultRunTimeout    = 5 * time.Minute
	configPathEnv        = "NEWSDESK_CONFIG"
	naverClientIDEnv     = "NAVER_CLIENT_ID"
	naverClientSecretEnv = "NAVER_CLIENT_SECRET"
	openAIAPIKeyEnv      = "OPENAI_API_KEY"
	openAIModelEnv       = "OPENAI_MODEL"
	geminiAPIKeyEnv      = "GEMINI_API_KEY"
	telegramTokenEnv     = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv    = "TELEGRAM_CHAT_ID"
	serverAddrEnv        = "NEWSDESK_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Window        WindowConfig       `yaml:"window"`
	Search        SearchConfig       `yaml:"search"`
	Sources       []SourceConfig     `yaml:"sources"`
	Exclude       ExcludeConfig      `yaml:"exclude"`
	Judges        JudgeConfig        `yaml:"judges"`
	Dedup         DedupConfig        `yaml:"dedup"`
	Weights       WeightConfig       `yaml:"weights"`
	RunTimeout    string             `yaml:"runTimeout"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	Naver         NaverConfig        `yaml:"naver"`
	RSS           RSSConfig          `yaml:"rss"`
	Notifications NotificationConfig `yaml:"notifications"`
	Server        ServerConfig       `yaml:"server"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WindowConfig pins the timezone the collection window is computed in.
type WindowConfig struct {
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the window timezone string to a time.Location.
func (w WindowConfig) Location() *time.Location {
	if w.location != nil {
		return w.location
	}
	return kstFallback()
}

// SearchConfig drives the news-search collaborator.
type SearchConfig struct {
	Groups   []KeywordGroup `yaml:"groups"`
	MaxPages int            `yaml:"maxPages"`
}

// KeywordGroup pairs a topic name with the search keywords it expands to.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// SourceConfig is one allow-listed publisher with its trust tier.
type SourceConfig struct {
	Name   string  `yaml:"name"`
	Domain string  `yaml:"domain"`
	Tier   float64 `yaml:"tier"`
}

// ExcludeConfig lists substrings that disqualify an article outright.
type ExcludeConfig struct {
	Keywords []string `yaml:"keywords"`
}

// JudgeConfig selects the AI provider and per-stage gates.
type JudgeConfig struct {
	Provider    string      `yaml:"provider"`
	Fallback    string      `yaml:"fallback"`
	Concurrency int         `yaml:"concurrency"`
	Print       StageConfig `yaml:"print"`
	Relevance   StageConfig `yaml:"relevance"`
}

// StageConfig gates one judging stage. A nil Enabled counts as enabled.
type StageConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	Threshold   float64  `yaml:"threshold"`
	ExcludeTags []string `yaml:"excludeTags"`
}

// IsEnabled reports whether the stage should run.
func (s StageConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// DedupConfig tunes duplicate grouping.
type DedupConfig struct {
	SimilarityCutoff float64 `yaml:"similarityCutoff"`
}

// WeightConfig weighs the composite used to pick a duplicate-group winner.
type WeightConfig struct {
	Print        float64 `yaml:"print"`
	Practicality float64 `yaml:"practicality"`
	SourceTier   float64 `yaml:"sourceTier"`
}

// OpenAIConfig defines how to contact an OpenAI-compatible chat API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// GeminiConfig defines the Gemini judge provider.
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"apiKey"`
}

// NaverConfig holds the Naver Open API endpoint and credentials.
type NaverConfig struct {
	Endpoint     string `yaml:"endpoint"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// RSSConfig lists publisher feeds polled as an alternate candidate source.
type RSSConfig struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// FeedConfig binds one feed URL to an allow-listed source name.
type FeedConfig struct {
	Source string `yaml:"source"`
	URL    string `yaml:"url"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig defines when curation runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return kstFallback()
}

// Timeout returns the run timeout, defaulting when unset or malformed.
func (c Config) Timeout() time.Duration {
	if c.RunTimeout == "" {
		return defaultRunTimeout
	}
	d, err := time.ParseDuration(c.RunTimeout)
	if err != nil || d <= 0 {
		return defaultRunTimeout
	}
	return d
}

// AllowedDomains maps each allow-listed source name to its canonical domain.
func (c Config) AllowedDomains() map[string]string {
	domains := make(map[string]string, len(c.Sources))
	for _, s := range c.Sources {
		domains[s.Name] = s.Domain
	}
	return domains
}

// SourceTiers maps each allow-listed source name to its trust tier.
func (c Config) SourceTiers() map[string]float64 {
	tiers := make(map[string]float64, len(c.Sources))
	for _, s := range c.Sources {
		tiers[s.Name] = s.Tier
	}
	return tiers
}

// SearchKeywords flattens all keyword groups into one deduplicated list,
// keeping group order.
func (c Config) SearchKeywords() []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, g := range c.Search.Groups {
		for _, kw := range g.Keywords {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Load reads .env, then YAML configuration (explicit path or XDG discovery),
// and applies environment overrides. Call Validate before using the result.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	path := os.Getenv(configPathEnv)
	if path == "" {
		if found, err := xdg.SearchConfigFile("newsdesk/config.yaml"); err == nil {
			path = found
		}
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezones()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

// Validate reports the first configuration problem as a ConfigError. A bad
// config aborts before any filtering.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return &domain.ConfigError{Field: "sources", Message: "allow-list must not be empty"}
	}
	for i, s := range c.Sources {
		if s.Name == "" || s.Domain == "" {
			return &domain.ConfigError{Field: fmt.Sprintf("sources[%d]", i), Message: "name and domain are required"}
		}
		if s.Tier < 0 || s.Tier > 1 {
			return &domain.ConfigError{Field: fmt.Sprintf("sources[%d].tier", i), Message: "tier must be within [0,1]"}
		}
	}
	if c.Judges.Print.Threshold < 0 || c.Judges.Print.Threshold > 1 {
		return &domain.ConfigError{Field: "judges.print.threshold", Message: "threshold must be within [0,1]"}
	}
	if c.Judges.Relevance.Threshold < 0 || c.Judges.Relevance.Threshold > 1 {
		return &domain.ConfigError{Field: "judges.relevance.threshold", Message: "threshold must be within [0,1]"}
	}
	if c.Judges.Concurrency < 1 {
		return &domain.ConfigError{Field: "judges.concurrency", Message: "concurrency must be at least 1"}
	}
	switch c.Judges.Fallback {
	case "pass", "reject":
	default:
		return &domain.ConfigError{Field: "judges.fallback", Message: "fallback must be pass or reject"}
	}
	switch c.Judges.Provider {
	case "openai", "gemini":
	default:
		return &domain.ConfigError{Field: "judges.provider", Message: "provider must be openai or gemini"}
	}
	if c.Dedup.SimilarityCutoff <= 0 || c.Dedup.SimilarityCutoff > 1 {
		return &domain.ConfigError{Field: "dedup.similarityCutoff", Message: "cutoff must be within (0,1]"}
	}
	for _, w := range []struct {
		field string
		value float64
	}{
		{"weights.print", c.Weights.Print},
		{"weights.practicality", c.Weights.Practicality},
		{"weights.sourceTier", c.Weights.SourceTier},
	} {
		if w.value < 0 || w.value > 1 {
			return &domain.ConfigError{Field: w.field, Message: "weight must be within [0,1]"}
		}
	}
	sum := c.Weights.Print + c.Weights.Practicality + c.Weights.SourceTier
	if math.Abs(sum-1) > 1e-9 {
		return &domain.ConfigError{Field: "weights", Message: fmt.Sprintf("weights must sum to 1, got %v", sum)}
	}
	if c.RunTimeout != "" {
		if _, err := time.ParseDuration(c.RunTimeout); err != nil {
			return &domain.ConfigError{Field: "runTimeout", Message: "must be a duration such as 5m"}
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(naverClientIDEnv); v != "" {
		c.Naver.ClientID = v
	}
	if v := os.Getenv(naverClientSecretEnv); v != "" {
		c.Naver.ClientSecret = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) bindTimezones() {
	c.Window.location = resolveLocation(c.Window.Timezone)
	c.Scheduler.location = resolveLocation(c.Scheduler.Timezone)
}

// resolveLocation loads the named timezone, reverting to fixed KST when the
// name is unknown or tzdata is unavailable.
func resolveLocation(tz string) *time.Location {
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to KST", tz)
		return kstFallback()
	}
	return loc
}

func kstFallback() *time.Location {
	return time.FixedZone("KST", 9*60*60)
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Window.Timezone != "" {
		base.Window.Timezone = override.Window.Timezone
	}

	if len(override.Search.Groups) > 0 {
		base.Search.Groups = override.Search.Groups
	}
	if override.Search.MaxPages > 0 {
		base.Search.MaxPages = override.Search.MaxPages
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.Exclude.Keywords) > 0 {
		base.Exclude.Keywords = override.Exclude.Keywords
	}

	if override.Judges.Provider != "" {
		base.Judges.Provider = override.Judges.Provider
	}
	if override.Judges.Fallback != "" {
		base.Judges.Fallback = override.Judges.Fallback
	}
	if override.Judges.Concurrency > 0 {
		base.Judges.Concurrency = override.Judges.Concurrency
	}
	base.Judges.Print = mergeStage(base.Judges.Print, override.Judges.Print)
	base.Judges.Relevance = mergeStage(base.Judges.Relevance, override.Judges.Relevance)

	if override.Dedup.SimilarityCutoff > 0 {
		base.Dedup.SimilarityCutoff = override.Dedup.SimilarityCutoff
	}

	if override.Weights != (WeightConfig{}) {
		base.Weights = override.Weights
	}

	if override.RunTimeout != "" {
		base.RunTimeout = override.RunTimeout
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Naver.Endpoint != "" {
		base.Naver.Endpoint = override.Naver.Endpoint
	}
	if override.Naver.ClientID != "" {
		base.Naver.ClientID = override.Naver.ClientID
	}
	if override.Naver.ClientSecret != "" {
		base.Naver.ClientSecret = override.Naver.ClientSecret
	}

	if len(override.RSS.Feeds) > 0 {
		base.RSS.Feeds = override.RSS.Feeds
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func mergeStage(base, override StageConfig) StageConfig {
	if override.Enabled != nil {
		base.Enabled = override.Enabled
	}
	if override.Threshold > 0 {
		base.Threshold = override.Threshold
	}
	if len(override.ExcludeTags) > 0 {
		base.ExcludeTags = override.ExcludeTags
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Window:  WindowConfig{Timezone: defaultTimezone},
		Search: SearchConfig{
			Groups: []KeywordGroup{
				{Name: "세무", Keywords: []string{"세금", "국세청", "세무조사", "법인세", "상속세", "증여세"}},
				{Name: "회계", Keywords: []string{"회계법인", "외부감사", "감사보고서", "IFRS", "내부회계관리제도", "공시"}},
			},
			MaxPages: 2,
		},
		Sources: []SourceConfig{
			{Name: "조선일보", Domain: "chosun.com", Tier: 1.0},
			{Name: "중앙일보", Domain: "joongang.co.kr", Tier: 0.9},
			{Name: "동아일보", Domain: "donga.com", Tier: 0.8},
			{Name: "조선비즈", Domain: "biz.chosun.com", Tier: 0.7},
			{Name: "매거진한경", Domain: "magazine.hankyung.com", Tier: 0.6},
			{Name: "한국경제", Domain: "hankyung.com", Tier: 0.5},
			{Name: "매일경제", Domain: "mk.co.kr", Tier: 0.4},
			{Name: "연합뉴스", Domain: "yna.co.kr", Tier: 0.3},
			{Name: "파이낸셜뉴스", Domain: "fnnews.com", Tier: 0.2},
			{Name: "머니투데이", Domain: "mt.co.kr", Tier: 0.1},
		},
		Exclude: ExcludeConfig{
			Keywords: []string{"스포츠", "야구", "축구", "골프", "연예", "아이돌", "드라마", "영화제"},
		},
		Judges: JudgeConfig{
			Provider:    "openai",
			Fallback:    "pass",
			Concurrency: 5,
			Print:       StageConfig{Threshold: 0.70},
			Relevance: StageConfig{
				Threshold:   0.70,
				ExcludeTags: []string{"개인적", "홍보성", "사회이슈", "사건사고"},
			},
		},
		Dedup:      DedupConfig{SimilarityCutoff: 0.60},
		Weights:    WeightConfig{Print: 0.6, Practicality: 0.3, SourceTier: 0.1},
		RunTimeout: "5m",
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Gemini: GeminiConfig{Model: "gemini-1.5-flash"},
		Naver: NaverConfig{
			Endpoint: "https://openapi.naver.com/v1/search/news.json",
		},
		RSS: RSSConfig{
			Feeds: []FeedConfig{
				{Source: "한국경제", URL: "https://www.hankyung.com/feed/economy"},
			},
		},
		Server: ServerConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{
			CronExpression: "5 10 * * 1-5",
			Timezone:       defaultTimezone,
		},
	}
}
