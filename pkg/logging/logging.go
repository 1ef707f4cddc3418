package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key used for errors in log records.
	KeyError = "err"

	// KeyDal is the key used for the data access layer name.
	KeyDal = "dal"

	// KeyGuildID is the key used for guild IDs.
	KeyGuildID = "guild_id"

	// KeyUserID is the key used for user IDs.
	KeyUserID = "user_id"

	// KeyChannelID is the key used for channel IDs.
	KeyChannelID = "channel_id"

	// KeyTraceID is the key used to correlate all records of one interaction.
	KeyTraceID = "trace_id"
)

// Name is the application name attached to every record.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// level is the minimum level that is written.
	level slog.Level
}

// NewConfig creates a new logging config at info level.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: string(appName),
		level:   slog.LevelInfo,
	}
}

// SetLevel parses the level name (debug, info, warn, error) onto the config.
func (c *Config) SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		c.level = slog.LevelDebug
	case "", "info":
		c.level = slog.LevelInfo
	case "warn", "warning":
		c.level = slog.LevelWarn
	case "error":
		c.level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: c.level == slog.LevelDebug,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String("app", c.appName))
	slog.SetDefault(l)
	return l, nil
}
