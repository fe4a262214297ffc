package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"FlowState/internal/model"
)

// MetricSpec declares how one indicator is windowed, weighted, and scored.
// Thresholds are signed fractions (0.005 = 0.5%). For inverted metrics the
// bullish threshold is the negative one (a drawdown is bullish).
type MetricSpec struct {
	WindowDays   int     `yaml:"window_days"`
	Weight       float64 `yaml:"weight"`
	Bullish      float64 `yaml:"bullish_threshold"`
	Bearish      float64 `yaml:"bearish_threshold"`
	Inverted     bool    `yaml:"inverted"`
	Acceleration bool    `yaml:"acceleration"`
}

// Config holds all application configuration.
type Config struct {
	Regime struct {
		AggressiveThreshold     float64 `yaml:"aggressive_threshold"`
		DefensiveThreshold      float64 `yaml:"defensive_threshold"`
		ConsecutiveDaysRequired int     `yaml:"consecutive_days_required"`
		MarginOverride          float64 `yaml:"margin_override"`
		StateFile               string  `yaml:"state_file"`
	} `yaml:"regime"`
	Metrics map[string]MetricSpec `yaml:"metrics"`
	Windows struct {
		MADays    int `yaml:"ma_days"`
		TrendDays int `yaml:"trend_days"`
	} `yaml:"windows"`
	Sources struct {
		FREDBaseURL      string `yaml:"fred_base_url"`
		FREDAPIKey       string `yaml:"-"`
		CoinGeckoBaseURL string `yaml:"coingecko_base_url"`
		CoinGeckoAPIKey  string `yaml:"-"`
		DefiLlamaBaseURL string `yaml:"defillama_base_url"`
		LookbackDays     int    `yaml:"lookback_days"`
	} `yaml:"sources"`
	Cache struct {
		RedisAddr           string `yaml:"redis_addr"`
		FREDTTLSeconds      int    `yaml:"fred_ttl_seconds"`
		CoinGeckoTTLSeconds int    `yaml:"coingecko_ttl_seconds"`
		DefiLlamaTTLSeconds int    `yaml:"defillama_ttl_seconds"`
	} `yaml:"cache"`
	Schedule struct {
		EvaluateCron string `yaml:"evaluate_cron"`
		BriefingCron string `yaml:"briefing_cron"`
	} `yaml:"schedule"`
	Discord struct {
		WebhookURL   string `yaml:"-"`
		DashboardURL string `yaml:"dashboard_url"`
	} `yaml:"discord"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// secrets are never read from YAML; only the environment (or .env).
type secrets struct {
	FREDAPIKey        string `envconfig:"FRED_API_KEY"`
	CoinGeckoAPIKey   string `envconfig:"COINGECKO_API_KEY"`
	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`
	RedisAddr         string `envconfig:"REDIS_ADDR"`
	SQLitePath        string `envconfig:"SQLITE_PATH"`
	ServerAddr        string `envconfig:"SERVER_ADDR"`
	StateFile         string `envconfig:"REGIME_STATE_FILE"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then fills defaults. A missing file is fine: the defaults
// describe the stock indicator set.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	var sec secrets
	if err := envconfig.Process("", &sec); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.Sources.FREDAPIKey = sec.FREDAPIKey
	cfg.Sources.CoinGeckoAPIKey = sec.CoinGeckoAPIKey
	cfg.Discord.WebhookURL = sec.DiscordWebhookURL
	if sec.RedisAddr != "" {
		cfg.Cache.RedisAddr = sec.RedisAddr
	}
	if sec.SQLitePath != "" {
		cfg.Database.SQLitePath = sec.SQLitePath
	}
	if sec.ServerAddr != "" {
		cfg.Server.Addr = sec.ServerAddr
	}
	if sec.StateFile != "" {
		cfg.Regime.StateFile = sec.StateFile
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Regime.AggressiveThreshold == 0 {
		c.Regime.AggressiveThreshold = 4.0
	}
	if c.Regime.DefensiveThreshold == 0 {
		c.Regime.DefensiveThreshold = -4.0
	}
	if c.Regime.ConsecutiveDaysRequired == 0 {
		c.Regime.ConsecutiveDaysRequired = 2
	}
	if c.Regime.MarginOverride == 0 {
		c.Regime.MarginOverride = 1.0
	}
	if c.Regime.StateFile == "" {
		c.Regime.StateFile = "data/regime_state.json"
	}

	if c.Metrics == nil {
		c.Metrics = map[string]MetricSpec{}
	}
	for name, spec := range defaultMetrics {
		if _, ok := c.Metrics[name]; !ok {
			c.Metrics[name] = spec
		}
	}

	if c.Windows.MADays == 0 {
		c.Windows.MADays = 200
	}
	if c.Windows.TrendDays == 0 {
		c.Windows.TrendDays = 14
	}

	if c.Sources.FREDBaseURL == "" {
		c.Sources.FREDBaseURL = "https://api.stlouisfed.org/fred/series/observations"
	}
	if c.Sources.CoinGeckoBaseURL == "" {
		c.Sources.CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Sources.DefiLlamaBaseURL == "" {
		c.Sources.DefiLlamaBaseURL = "https://stablecoins.llama.fi"
	}
	if c.Sources.LookbackDays == 0 {
		c.Sources.LookbackDays = 365
	}

	if c.Cache.FREDTTLSeconds == 0 {
		c.Cache.FREDTTLSeconds = 4 * 3600
	}
	if c.Cache.CoinGeckoTTLSeconds == 0 {
		c.Cache.CoinGeckoTTLSeconds = 3600
	}
	if c.Cache.DefiLlamaTTLSeconds == 0 {
		c.Cache.DefiLlamaTTLSeconds = 2 * 3600
	}

	if c.Schedule.EvaluateCron == "" {
		c.Schedule.EvaluateCron = "0 15 */4 * * *"
	}
	if c.Schedule.BriefingCron == "" {
		c.Schedule.BriefingCron = "0 0 13 * * *"
	}

	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/flowstate.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// defaultMetrics is the stock indicator table. The DXY and stablecoin
// thresholds are the tuned variants (0.8% and 3.5%); both get adjusted
// per deployment.
var defaultMetrics = map[string]MetricSpec{
	model.MetricWALCL.String():      {WindowDays: 28, Weight: 1.5, Bullish: 0.005, Bearish: -0.005, Acceleration: true},
	model.MetricRRP.String():        {WindowDays: 28, Weight: 1.5, Bullish: -0.05, Bearish: 0.05, Inverted: true, Acceleration: true},
	model.MetricHYSpread.String():   {WindowDays: 28, Weight: 1.5, Bullish: -0.10, Bearish: 0.10, Inverted: true},
	model.MetricDXY.String():        {WindowDays: 28, Weight: 1.0, Bullish: -0.008, Bearish: 0.008, Inverted: true},
	model.MetricStablecoin.String(): {WindowDays: 21, Weight: 1.0, Bullish: 0.035, Bearish: -0.035},
}

// Spec returns the metric table entry for a scored indicator.
func (c *Config) Spec(m model.Metric) (MetricSpec, bool) {
	s, ok := c.Metrics[m.String()]
	return s, ok
}

// TTLFor returns the cache TTL for a metric's source family.
func (c *Config) TTLFor(m model.Metric) time.Duration {
	switch m {
	case model.MetricBTC:
		return time.Duration(c.Cache.CoinGeckoTTLSeconds) * time.Second
	case model.MetricStablecoin:
		return time.Duration(c.Cache.DefiLlamaTTLSeconds) * time.Second
	default:
		return time.Duration(c.Cache.FREDTTLSeconds) * time.Second
	}
}

// Validate checks the configuration surface. Malformed thresholds and
// weights are deployment errors and fail at startup, not per cycle.
func (c *Config) Validate() error {
	if c.Regime.AggressiveThreshold <= c.Regime.DefensiveThreshold {
		return fmt.Errorf("regime.aggressive_threshold must exceed regime.defensive_threshold")
	}
	if c.Regime.ConsecutiveDaysRequired < 1 {
		return fmt.Errorf("regime.consecutive_days_required must be at least 1")
	}
	if c.Regime.MarginOverride < 0 {
		return fmt.Errorf("regime.margin_override must not be negative")
	}

	for _, m := range model.ScoredMetrics {
		spec, ok := c.Spec(m)
		if !ok {
			return fmt.Errorf("metrics.%s is missing", m)
		}
		if spec.Weight <= 0 {
			return fmt.Errorf("metrics.%s.weight must be positive", m)
		}
		if spec.WindowDays <= 0 {
			return fmt.Errorf("metrics.%s.window_days must be positive", m)
		}
		if spec.Inverted {
			if spec.Bullish >= spec.Bearish {
				return fmt.Errorf("metrics.%s: inverted metric needs bullish_threshold < bearish_threshold", m)
			}
		} else if spec.Bullish <= spec.Bearish {
			return fmt.Errorf("metrics.%s: bullish_threshold must exceed bearish_threshold", m)
		}
	}

	if c.Windows.MADays <= 0 {
		return fmt.Errorf("windows.ma_days must be positive")
	}
	if c.Windows.TrendDays <= 0 {
		return fmt.Errorf("windows.trend_days must be positive")
	}
	return nil
}
