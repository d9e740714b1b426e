package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig_JSON(t *testing.T) {
	p := writeFile(t, "cfg.json", `{
		"server": {"address": ":9090", "allowed_origins": ["Game.Example", " *.game.example "]},
		"database": "/tmp/x.db",
		"board": {"width": 6, "height": 7},
		"battle": {"boss_hp": 800, "idle_timeout": "5m", "attack_params_timeout": "1500ms"},
		"chain": {"rpc_url": "http://localhost:8545", "boss_stats_address": "0x1111111111111111111111111111111111111111"}
	}`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, []string{"game.example", "*.game.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, 6, cfg.BoardWidth)
	assert.Equal(t, 7, cfg.BoardHeight)
	assert.Equal(t, 800, cfg.DefaultBossHP)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.AttackParamsTimeout)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_YAMLKeepsDefaults(t *testing.T) {
	p := writeFile(t, "cfg.yaml", "log_level: DEBUG\nquiz_file: ./q.yaml\n")
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	d := Defaults()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./q.yaml", cfg.QuizFile)
	assert.Equal(t, d.ServerAddress, cfg.ServerAddress)
	assert.Equal(t, d.BoardWidth, cfg.BoardWidth)
	assert.Equal(t, d.IdleTimeout, cfg.IdleTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"tiny board":      `{"board": {"width": 2}}`,
		"negative hp":     `{"battle": {"boss_hp": -1}}`,
		"bad duration":    `{"battle": {"idle_timeout": "soon"}}`,
		"zero duration":   `{"battle": {"idle_timeout": "0s"}}`,
		"bad level":       `{"log_level": "loud"}`,
		"address w/o rpc": `{"chain": {"nft_address": "0x2222222222222222222222222222222222222222"}}`,
		"malformed":       `{`,
		"bad origin":      `{"server": {"allowed_origins": ["[game"]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "cfg.json", body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
