package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/riskgate/bus"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/server"
)

// Config is the complete riskgate configuration.
type Config struct {
	Session  SessionConfig  `json:"session" yaml:"session"`
	Capital  CapitalConfig  `json:"capital" yaml:"capital"`
	Risk     risk.Limits    `json:"risk" yaml:"risk"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Bus      bus.Config     `json:"bus" yaml:"bus"`
	Server   server.Config  `json:"server" yaml:"server"`
	Remote   RemoteConfig   `json:"remote_ledger" yaml:"remote_ledger"`
	Lock     LockConfig     `json:"lock" yaml:"lock"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// SessionConfig names the default accounting session.
type SessionConfig struct {
	ID string `json:"id" yaml:"id"`
}

// CapitalConfig seeds the account. CurrentEquity/PeakEquity resume an
// account whose history lives elsewhere; zero means a fresh account at
// InitialCapital.
type CapitalConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CurrentEquity  float64 `json:"current_equity" yaml:"current_equity"`
	PeakEquity     float64 `json:"peak_equity" yaml:"peak_equity"`
}

type PipelineConfig struct {
	PendingTTL    string `json:"pending_ttl" yaml:"pending_ttl"` // e.g. "5m"
	SnapshotEvery int    `json:"snapshot_every" yaml:"snapshot_every"`
}

// ParsePendingTTL converts the pending TTL string to a duration.
func (p PipelineConfig) ParsePendingTTL() (time.Duration, error) {
	if p.PendingTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(p.PendingTTL)
}

type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "memory"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RemoteConfig points buying-power queries at a shared ledger instance.
// Empty URL means the local ledger is authoritative.
type RemoteConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

type LockConfig struct {
	Type      string `json:"type" yaml:"type"` // "local" or "redis"
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration (YAML for .yaml/.yml, else JSON).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Session.ID == "" {
		return fmt.Errorf("session.id is required")
	}
	if c.Capital.InitialCapital <= 0 {
		return fmt.Errorf("capital.initial_capital must be positive")
	}
	if p := c.Risk.FallbackPolicy; p != risk.FallbackApprove && p != risk.FallbackReject {
		return fmt.Errorf("risk.fallback_policy must be %q or %q", risk.FallbackApprove, risk.FallbackReject)
	}
	for name, pct := range map[string]float64{
		"risk.loss_limits.max_daily_loss_pct":           c.Risk.Loss.MaxDailyLossPct,
		"risk.loss_limits.max_drawdown":                 c.Risk.Loss.MaxDrawdown,
		"risk.portfolio_limits.max_portfolio_exposure":  c.Risk.Portfolio.MaxPortfolioExposure,
		"risk.portfolio_limits.max_single_position_pct": c.Risk.Portfolio.MaxSinglePositionPct,
		"risk.portfolio_limits.reserve_cash_pct":        c.Risk.Portfolio.ReserveCashPct,
		"risk.modes.defensive_drawdown_threshold":       c.Risk.Modes.DefensiveDrawdownThreshold,
	} {
		if pct < 0 || pct > 1 {
			return fmt.Errorf("%s must be a fraction between 0 and 1", name)
		}
	}
	if c.Risk.Modes.DefensiveDrawdownThreshold > 0 && c.Risk.Loss.MaxDrawdown > 0 &&
		c.Risk.Modes.DefensiveDrawdownThreshold >= c.Risk.Loss.MaxDrawdown {
		return fmt.Errorf("risk.modes.defensive_drawdown_threshold must be below risk.loss_limits.max_drawdown")
	}
	if c.Journal.Type != "sqlite" && c.Journal.Type != "memory" {
		return fmt.Errorf("journal.type must be 'sqlite' or 'memory'")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for sqlite journal")
	}
	if c.Lock.Type != "local" && c.Lock.Type != "redis" {
		return fmt.Errorf("lock.type must be 'local' or 'redis'")
	}
	if c.Lock.Type == "redis" && c.Lock.RedisAddr == "" {
		return fmt.Errorf("lock.redis_addr required for redis lock")
	}
	if _, err := c.Pipeline.ParsePendingTTL(); err != nil {
		return fmt.Errorf("pipeline.pending_ttl: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults and a fresh
// session id.
func Default() *Config {
	return &Config{
		Session: SessionConfig{ID: uuid.NewString()},
		Capital: CapitalConfig{InitialCapital: 100000},
		Risk:    risk.DefaultLimits(),
		Pipeline: PipelineConfig{
			PendingTTL:    "5m",
			SnapshotEvery: 50,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./riskgate.db",
		},
		Bus:    bus.DefaultConfig(),
		Server: server.DefaultConfig(),
		Lock:   LockConfig{Type: "local", Prefix: "riskgate:session:"},
		Log:    LogConfig{Level: "info"},
	}
}
