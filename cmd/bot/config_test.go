package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot_token: file-token
application_id: "1234"
store_backend: redis
redis_url: redis://localhost:6379/0
monitoring_port: "9000"
log_level: warn
`), 0o600))

	cfg, err := LoadConfig(
		[]string{"--config", path, "--log-level", "debug"},
		envOf(map[string]string{EnvBotToken: "env-token"}),
	)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.BotToken)
	require.Equal(t, "1234", cfg.ApplicationID)
	require.Equal(t, "redis", cfg.StoreBackend)
	require.Equal(t, "9000", cfg.MonitoringPort)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, AppName, cfg.MongoDatabase)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing token",
			env:  map[string]string{EnvApplicationId: "1", EnvMongoUri: "mongodb://localhost"},
		},
		{
			name: "mongo without uri",
			env:  map[string]string{EnvBotToken: "t", EnvApplicationId: "1"},
		},
		{
			name: "unknown backend",
			env:  map[string]string{EnvBotToken: "t", EnvApplicationId: "1", EnvStoreBackend: "sqlite"},
		},
		{
			name: "legacy guild not numeric",
			env:  map[string]string{EnvBotToken: "t", EnvApplicationId: "1", EnvStoreBackend: "file", EnvLegacyGuildId: "guild"},
		},
		{
			name: "bad log level",
			env:  map[string]string{EnvBotToken: "t", EnvApplicationId: "1", EnvStoreBackend: "file", EnvLogLevel: "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(nil, envOf(tt.env))
			require.Nil(t, cfg)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
		})
	}
}

func TestLoadConfig_FileBackend(t *testing.T) {
	cfg, err := LoadConfig(
		[]string{"--monitoring-port", "7000"},
		envOf(map[string]string{
			EnvBotToken:      "t",
			EnvApplicationId: "42",
			EnvStoreBackend:  "file",
			EnvDataDir:       "/var/lib/warden",
			EnvLegacyGuildId: "1234",
		}),
	)
	require.NoError(t, err)

	opts := cfg.StoreOptions()
	require.Equal(t, "file", opts.Backend)
	require.Equal(t, "/var/lib/warden", opts.DataDir)
	require.Equal(t, "1234", opts.LegacyGuildID)
	require.Equal(t, "7000", cfg.MonitoringPort)
}
