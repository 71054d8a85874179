package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a jobradar run. It is loaded once per
// process and passed explicitly into constructors; there are no package-level
// config caches.
type Config struct {
	Companies    []CompanyConfig
	Keywords     KeywordConfig
	Locations    LocationConfig
	Filtering    FilteringConfig
	System       SystemConfig
	Output       OutputConfig
	Notification NotificationConfig
	Schedule     ScheduleConfig
}

// CompanyConfig describes a single company board to scrape.
type CompanyConfig struct {
	Name       string `yaml:"name"`
	ATS        string `yaml:"ats"` // greenhouse | lever | ashby
	BoardToken string `yaml:"board_token"`
	Enabled    bool   `yaml:"enabled"`
}

// KeywordConfig holds every keyword list the filters and scorer consume.
type KeywordConfig struct {
	HighPriority    []string // +10 at ingestion, +20 in processing
	Exclude         []string // soft title reject
	TitleBlocklist  []string // hard title reject, checked after Exclude
	PreferredSkills []string // +5 per match in title or description
	PenaltySkills   []string // -3 per match in description
}

// LocationConfig holds the location allow/deny substring lists.
// Exclude is checked before Include so "Remote - UK" loses to the generic
// remote pass-through.
type LocationConfig struct {
	Include []string
	Exclude []string
}

// FilteringConfig controls the experience-ceiling filter.
type FilteringConfig struct {
	Enabled            bool
	MaxYearsExperience int
}

// SystemConfig holds HTTP and concurrency knobs.
type SystemConfig struct {
	ConcurrencyLimit int
	RequestTimeout   time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
	RatePerSecond    float64 // per-ATS request rate
	RateBurst        int
	UserAgent        string
}

// OutputConfig holds the persisted-state file locations.
type OutputConfig struct {
	FeedPath   string
	LedgerPath string
	SeenDBPath string
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ScheduleConfig controls the start daemon's polling interval.
type ScheduleConfig struct {
	Interval time.Duration
}

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	Companies    []CompanyConfig    `yaml:"companies"`
	Keywords     rawKeywordConfig   `yaml:"keywords"`
	Locations    rawLocationConfig  `yaml:"locations"`
	Filtering    rawFilteringConfig `yaml:"filtering"`
	System       rawSystemConfig    `yaml:"system"`
	Output       rawOutputConfig    `yaml:"output"`
	Notification NotificationConfig `yaml:"notification"`
	Schedule     rawScheduleConfig  `yaml:"schedule"`
}

type rawKeywordConfig struct {
	HighPriority    []string `yaml:"high_priority"`
	Exclude         []string `yaml:"exclude"`
	TitleBlocklist  []string `yaml:"title_blocklist"`
	PreferredSkills []string `yaml:"preferred_skills"`
	PenaltySkills   []string `yaml:"penalty_skills"`
}

type rawLocationConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

type rawFilteringConfig struct {
	Enabled            bool `yaml:"enabled"`
	MaxYearsExperience int  `yaml:"max_years_experience"`
}

type rawSystemConfig struct {
	ConcurrencyLimit int     `yaml:"concurrency_limit"`
	RequestTimeout   string  `yaml:"request_timeout"`
	MaxRetries       *int    `yaml:"max_retries"`
	RetryBaseDelay   string  `yaml:"retry_base_delay"`
	RatePerSecond    float64 `yaml:"rate_per_second"`
	RateBurst        int     `yaml:"rate_burst"`
	UserAgent        string  `yaml:"user_agent"`
}

type rawOutputConfig struct {
	FeedPath   string `yaml:"feed_path"`
	LedgerPath string `yaml:"ledger_path"`
	SeenDBPath string `yaml:"seen_db_path"`
}

type rawScheduleConfig struct {
	Interval string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (webhook URLs, paths).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := 15 * time.Second
	if raw.System.RequestTimeout != "" {
		timeout, err = time.ParseDuration(raw.System.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse system.request_timeout %q: %w", raw.System.RequestTimeout, err)
		}
	}

	baseDelay := 1 * time.Second
	if raw.System.RetryBaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.System.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse system.retry_base_delay %q: %w", raw.System.RetryBaseDelay, err)
		}
	}

	interval := 6 * time.Hour
	if raw.Schedule.Interval != "" {
		interval, err = time.ParseDuration(raw.Schedule.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse schedule.interval %q: %w", raw.Schedule.Interval, err)
		}
	}

	concurrency := raw.System.ConcurrencyLimit
	if concurrency == 0 {
		concurrency = 5
	}

	maxRetries := 3
	if raw.System.MaxRetries != nil {
		maxRetries = *raw.System.MaxRetries
	}

	ratePerSecond := raw.System.RatePerSecond
	if ratePerSecond == 0 {
		ratePerSecond = 2
	}
	rateBurst := raw.System.RateBurst
	if rateBurst == 0 {
		rateBurst = 1
	}

	maxExp := raw.Filtering.MaxYearsExperience
	if maxExp == 0 {
		maxExp = 5
	}

	cfg := &Config{
		Companies: raw.Companies,
		Keywords: KeywordConfig{
			HighPriority:    raw.Keywords.HighPriority,
			Exclude:         raw.Keywords.Exclude,
			TitleBlocklist:  raw.Keywords.TitleBlocklist,
			PreferredSkills: raw.Keywords.PreferredSkills,
			PenaltySkills:   raw.Keywords.PenaltySkills,
		},
		Locations: LocationConfig{
			Include: raw.Locations.Include,
			Exclude: raw.Locations.Exclude,
		},
		Filtering: FilteringConfig{
			Enabled:            raw.Filtering.Enabled,
			MaxYearsExperience: maxExp,
		},
		System: SystemConfig{
			ConcurrencyLimit: concurrency,
			RequestTimeout:   timeout,
			MaxRetries:       maxRetries,
			RetryBaseDelay:   baseDelay,
			RatePerSecond:    ratePerSecond,
			RateBurst:        rateBurst,
			UserAgent:        raw.System.UserAgent,
		},
		Output: OutputConfig{
			FeedPath:   defaultStr(raw.Output.FeedPath, "data/jobs_feed.json"),
			LedgerPath: defaultStr(raw.Output.LedgerPath, "data/applied_jobs.json"),
			SeenDBPath: defaultStr(raw.Output.SeenDBPath, "data/seen.db"),
		},
		Notification: raw.Notification,
		Schedule:     ScheduleConfig{Interval: interval},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	enabled := 0
	for _, c := range cfg.Companies {
		if !c.Enabled {
			continue
		}
		enabled++
		switch strings.ToLower(c.ATS) {
		case "greenhouse", "lever", "ashby":
		default:
			return fmt.Errorf("company %q: unsupported ats %q", c.Name, c.ATS)
		}
		if c.BoardToken == "" {
			return fmt.Errorf("company %q: board_token is required", c.Name)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one company must be enabled")
	}

	if cfg.System.ConcurrencyLimit < 1 {
		return fmt.Errorf("system.concurrency_limit must be positive, got %d", cfg.System.ConcurrencyLimit)
	}
	if cfg.System.RequestTimeout <= 0 {
		return fmt.Errorf("system.request_timeout must be positive, got %v", cfg.System.RequestTimeout)
	}
	if cfg.System.MaxRetries < 0 {
		return fmt.Errorf("system.max_retries must not be negative, got %d", cfg.System.MaxRetries)
	}
	if cfg.Filtering.MaxYearsExperience < 0 {
		return fmt.Errorf("filtering.max_years_experience must not be negative, got %d", cfg.Filtering.MaxYearsExperience)
	}
	if cfg.Schedule.Interval <= 0 {
		return fmt.Errorf("schedule.interval must be positive, got %v", cfg.Schedule.Interval)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}
