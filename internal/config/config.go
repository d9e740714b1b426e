package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address" yaml:"address"`
		// Host patterns (path.Match syntax) allowed to open websocket
		// event streams from another origin.
		AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	} `json:"server" yaml:"server"`
	Database string `json:"database" yaml:"database"`
	LogLevel string `json:"log_level" yaml:"log_level"`
	Board    *struct {
		Width  int `json:"width" yaml:"width"`
		Height int `json:"height" yaml:"height"`
	} `json:"board" yaml:"board"`
	Battle *struct {
		// Durations use time.ParseDuration syntax ("3s", "15m").
		BossHP              int    `json:"boss_hp" yaml:"boss_hp"`
		IdleTimeout         string `json:"idle_timeout" yaml:"idle_timeout"`
		AttackParamsTimeout string `json:"attack_params_timeout" yaml:"attack_params_timeout"`
	} `json:"battle" yaml:"battle"`
	Chain *struct {
		RPCURL           string `json:"rpc_url" yaml:"rpc_url"`
		BossStatsAddress string `json:"boss_stats_address" yaml:"boss_stats_address"`
		NFTAddress       string `json:"nft_address" yaml:"nft_address"`
	} `json:"chain" yaml:"chain"`
	// Optional quiz bank file; the embedded bank is used when empty.
	QuizFile string `json:"quiz_file" yaml:"quiz_file"`
}

// LoadedConfig is the validated server configuration with defaults applied.
type LoadedConfig struct {
	ServerAddress  string
	AllowedOrigins []string
	DatabasePath   string
	LogLevel       string

	BoardWidth  int
	BoardHeight int

	DefaultBossHP       int
	IdleTimeout         time.Duration
	AttackParamsTimeout time.Duration

	RPCURL           string
	BossStatsAddress string
	NFTAddress       string

	QuizFile string
}

// Defaults returns the configuration used when no file is present.
func Defaults() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress:       ":8080",
		DatabasePath:        "./data/sphere_quiz.db",
		LogLevel:            "info",
		BoardWidth:          8,
		BoardHeight:         9,
		DefaultBossHP:       500,
		IdleTimeout:         15 * time.Minute,
		AttackParamsTimeout: 3 * time.Second,
	}
}

// LoadConfig reads a JSON or YAML (by extension) configuration file. Missing
// keys keep their defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Defaults()
	if rc.Server != nil {
		if rc.Server.Address != "" {
			cfg.ServerAddress = rc.Server.Address
		}
		for _, o := range rc.Server.AllowedOrigins {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.ToLower(o))
			}
		}
	}
	if s := strings.TrimSpace(rc.Database); s != "" {
		cfg.DatabasePath = s
	}
	if s := strings.TrimSpace(rc.LogLevel); s != "" {
		cfg.LogLevel = strings.ToLower(s)
	}
	if rc.Board != nil {
		if rc.Board.Width != 0 {
			cfg.BoardWidth = rc.Board.Width
		}
		if rc.Board.Height != 0 {
			cfg.BoardHeight = rc.Board.Height
		}
	}
	if rc.Battle != nil {
		if rc.Battle.BossHP != 0 {
			cfg.DefaultBossHP = rc.Battle.BossHP
		}
		if cfg.IdleTimeout, err = parseDuration(rc.Battle.IdleTimeout, cfg.IdleTimeout); err != nil {
			return nil, fmt.Errorf("config file %s: idle_timeout: %w", path, err)
		}
		if cfg.AttackParamsTimeout, err = parseDuration(rc.Battle.AttackParamsTimeout, cfg.AttackParamsTimeout); err != nil {
			return nil, fmt.Errorf("config file %s: attack_params_timeout: %w", path, err)
		}
	}
	if rc.Chain != nil {
		cfg.RPCURL = strings.TrimSpace(rc.Chain.RPCURL)
		cfg.BossStatsAddress = strings.TrimSpace(rc.Chain.BossStatsAddress)
		cfg.NFTAddress = strings.TrimSpace(rc.Chain.NFTAddress)
	}
	cfg.QuizFile = strings.TrimSpace(rc.QuizFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// Validate checks cross-field constraints. It is also run after env
// overrides are applied.
func (c *LoadedConfig) Validate() error {
	// Smaller boards cannot hold a 3-sphere match in both directions.
	if c.BoardWidth < 3 || c.BoardHeight < 3 {
		return fmt.Errorf("board must be at least 3x3, got %dx%d", c.BoardWidth, c.BoardHeight)
	}
	if c.DefaultBossHP <= 0 {
		return fmt.Errorf("boss_hp must be positive, got %d", c.DefaultBossHP)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for _, o := range c.AllowedOrigins {
		if _, err := path.Match(o, ""); err != nil {
			return fmt.Errorf("allowed_origins: bad pattern %q", o)
		}
	}
	if c.RPCURL == "" && (c.BossStatsAddress != "" || c.NFTAddress != "") {
		return fmt.Errorf("chain contract addresses set without chain.rpc_url")
	}
	return nil
}
