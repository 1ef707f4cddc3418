package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the name of the application.
	AppName = "warden"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvStoreBackend is the environment variable for the persistence backend.
	EnvStoreBackend = `STORE_BACKEND`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMongoDatabase is the environment variable for the MongoDB database.
	EnvMongoDatabase = `MONGO_DATABASE`

	// EnvRedisUrl is the environment variable for the Redis URL.
	EnvRedisUrl = `REDIS_URL`

	// EnvDataDir is the environment variable for the file store directory.
	EnvDataDir = `DATA_DIR`

	// EnvLegacyGuildId is the environment variable for the guild that adopts single-guild state files.
	EnvLegacyGuildId = `LEGACY_GUILD_ID`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvLogLevel is the environment variable for the log level.
	EnvLogLevel = `LOG_LEVEL`
)

// AppConfig is the process configuration.
type AppConfig struct {
	BotToken       string `yaml:"bot_token" validate:"required"`
	ApplicationID  string `yaml:"application_id" validate:"required,numeric"`
	StoreBackend   string `yaml:"store_backend" validate:"required,oneof=mongo redis file"`
	MongoURI       string `yaml:"mongo_uri" validate:"required_if=StoreBackend mongo"`
	MongoDatabase  string `yaml:"mongo_database" validate:"required_if=StoreBackend mongo"`
	RedisURL       string `yaml:"redis_url" validate:"required_if=StoreBackend redis"`
	DataDir        string `yaml:"data_dir" validate:"required_if=StoreBackend file"`
	LegacyGuildID  string `yaml:"legacy_guild_id" validate:"omitempty,numeric"`
	MonitoringPort string `yaml:"monitoring_port" validate:"required,numeric"`
	LogLevel       string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		StoreBackend:   dataaccess.BackendMongo,
		MongoDatabase:  AppName,
		DataDir:        ".",
		MonitoringPort: "8080",
		LogLevel:       "info",
	}
}

// StoreOptions returns the persistence options of the configuration.
func (c *AppConfig) StoreOptions() dataaccess.Options {
	return dataaccess.Options{
		Backend:       c.StoreBackend,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		RedisURL:      c.RedisURL,
		DataDir:       c.DataDir,
		LegacyGuildID: c.LegacyGuildID,
	}
}

// errHelp is returned when the usage was requested.
var errHelp = pflag.ErrHelp

// LoadConfig builds the configuration from defaults, the optional YAML file, the environment and
// the command line, in increasing order of precedence.
func LoadConfig(args []string, getenv func(string) string) (*AppConfig, error) {
	cfg := defaultConfig()

	var (
		configPath     string
		monitoringPort string
		logLevel       string
	)

	flagSet := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flagSet.StringVar(&monitoringPort, "monitoring-port", "", "port of the metrics and health server")
	flagSet.StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	for key, field := range map[string]*string{
		EnvBotToken:       &cfg.BotToken,
		EnvApplicationId:  &cfg.ApplicationID,
		EnvStoreBackend:   &cfg.StoreBackend,
		EnvMongoUri:       &cfg.MongoURI,
		EnvMongoDatabase:  &cfg.MongoDatabase,
		EnvRedisUrl:       &cfg.RedisURL,
		EnvDataDir:        &cfg.DataDir,
		EnvLegacyGuildId:  &cfg.LegacyGuildID,
		EnvMonitoringPort: &cfg.MonitoringPort,
		EnvLogLevel:       &cfg.LogLevel,
	} {
		if v := getenv(key); v != "" {
			*field = v
		}
	}

	if flagSet.Changed("monitoring-port") {
		cfg.MonitoringPort = monitoringPort
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid configuration: %w", verrs)
		}
		return nil, fmt.Errorf("error validating configuration: %w", err)
	}
	return cfg, nil
}
