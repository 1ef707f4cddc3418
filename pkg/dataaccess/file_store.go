package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

const (
	fileDalName = "file_store"

	// ConfigFileName is the name of the guild configuration file.
	ConfigFileName = "ticket_config.json"

	// CounterFileName is the name of the ticket counter file.
	CounterFileName = "ticket_counter.json"
)

// FileStore keeps all guild configs in one JSON file and all counters in another.
// Both files are read in full at open and rewritten in full on every change.
type FileStore struct {
	// l is the logger.
	l *slog.Logger

	// dir is the directory holding the state files.
	dir string

	// mut guards the maps and the files.
	mut sync.Mutex

	configs  map[string]*entities.GuildTicketConfig
	counters map[string]*entities.TicketCounter

	// legacyGuildID is the guild a single-guild record is adopted by. Empty means the first
	// guild the store is asked about.
	legacyGuildID string

	// legacyConfig and legacyCounter hold a single-guild record until a guild adopts it.
	legacyConfig  *entities.GuildTicketConfig
	legacyCounter *entities.TicketCounter
}

// legacyConfigKeys are the top level keys of a single-guild config file.
var legacyConfigKeys = []string{"ticket_category", "transcript_channel", "support_roles", "ticket_type", "ticket_message"}

// legacyTicketConfig is the single-guild config record. IDs are written as bare integers.
type legacyTicketConfig struct {
	TicketCategory    json.Number        `json:"ticket_category"`
	TranscriptChannel json.Number        `json:"transcript_channel"`
	SupportRoles      []json.Number      `json:"support_roles"`
	TicketType        entities.EntryMode `json:"ticket_type"`
	TicketMessage     *string            `json:"ticket_message"`
}

func (c *legacyTicketConfig) toConfig() *entities.GuildTicketConfig {
	cfg := &entities.GuildTicketConfig{
		TicketCategoryID:    c.TicketCategory.String(),
		TranscriptChannelID: c.TranscriptChannel.String(),
		SupportRoleIDs:      make([]string, 0, len(c.SupportRoles)),
		EntryMode:           c.TicketType,
		TicketMessage:       c.TicketMessage,
	}
	for _, id := range c.SupportRoles {
		if id != "" {
			cfg.SupportRoleIDs = append(cfg.SupportRoleIDs, id.String())
		}
	}
	return cfg
}

// OpenFileStore loads the state files from dir. A file that does not decode is reported as
// ErrMalformedState and must stop startup.
//
// Files holding a single record at the top level instead of one per guild are adopted by
// legacyGuildID, or by the first guild that uses the store when legacyGuildID is empty. They
// are rewritten keyed by guild on the next change.
func OpenFileStore(l *slog.Logger, dir, legacyGuildID string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	s := &FileStore{
		l:        l.With(slog.String(logging.KeyDal, fileDalName)),
		dir:      dir,
		configs:  make(map[string]*entities.GuildTicketConfig),
		counters: make(map[string]*entities.TicketCounter),

		legacyGuildID: legacyGuildID,
	}

	if err := s.readConfigs(); err != nil {
		return nil, err
	}
	if err := s.readCounters(); err != nil {
		return nil, err
	}
	if s.configs == nil {
		s.configs = make(map[string]*entities.GuildTicketConfig)
	}
	if s.counters == nil {
		s.counters = make(map[string]*entities.TicketCounter)
	}

	for guildID, cfg := range s.configs {
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s: guild %s has a null record", ErrMalformedState, ConfigFileName, guildID)
		}
		if cfg.EntryMode != "" && !cfg.EntryMode.Valid() {
			return nil, fmt.Errorf("%w: %s: guild %s has unknown ticket_type %q", ErrMalformedState, ConfigFileName, guildID, cfg.EntryMode)
		}
		cfg.Normalize(guildID)
	}
	for guildID, c := range s.counters {
		if c == nil || c.Counter < 0 {
			return nil, fmt.Errorf("%w: %s: guild %s has an invalid counter", ErrMalformedState, CounterFileName, guildID)
		}
	}
	if s.legacyConfig != nil && s.legacyConfig.EntryMode != "" && !s.legacyConfig.EntryMode.Valid() {
		return nil, fmt.Errorf("%w: %s: unknown ticket_type %q", ErrMalformedState, ConfigFileName, s.legacyConfig.EntryMode)
	}
	if s.legacyCounter != nil && s.legacyCounter.Counter < 0 {
		return nil, fmt.Errorf("%w: %s: invalid counter", ErrMalformedState, CounterFileName)
	}

	if legacyGuildID != "" {
		s.adoptLegacy(legacyGuildID)
	}

	s.l.Debug("Loaded state files",
		slog.String("dir", dir),
		slog.Int("configs", len(s.configs)),
		slog.Int("counters", len(s.counters)),
	)
	return s, nil
}

func (s *FileStore) readConfigs() error {
	top := make(map[string]json.RawMessage)
	raw, err := readJSONFile(filepath.Join(s.dir, ConfigFileName), &top)
	if err != nil || raw == nil {
		return err
	}

	if !hasAnyKey(top, legacyConfigKeys...) {
		return decodeJSON(ConfigFileName, raw, &s.configs)
	}

	legacy := new(legacyTicketConfig)
	if err := decodeJSON(ConfigFileName, raw, legacy); err != nil {
		return err
	}
	s.legacyConfig = legacy.toConfig()
	return nil
}

func (s *FileStore) readCounters() error {
	top := make(map[string]json.RawMessage)
	raw, err := readJSONFile(filepath.Join(s.dir, CounterFileName), &top)
	if err != nil || raw == nil {
		return err
	}

	if !hasAnyKey(top, "counter") {
		return decodeJSON(CounterFileName, raw, &s.counters)
	}

	s.legacyCounter = new(entities.TicketCounter)
	return decodeJSON(CounterFileName, raw, s.legacyCounter)
}

// adoptLegacy hands a pending single-guild record to the guild. Guilds that already have a
// record of their own keep it. Callers hold the store lock.
func (s *FileStore) adoptLegacy(guildID string) {
	if s.legacyConfig == nil && s.legacyCounter == nil {
		return
	}
	if s.legacyGuildID != "" && s.legacyGuildID != guildID {
		return
	}

	if cfg := s.legacyConfig; cfg != nil {
		if _, ok := s.configs[guildID]; ok {
			s.l.Warn("Guild already has a ticket config, ignoring single-guild record", slog.String(logging.KeyGuildID, guildID))
		} else {
			cfg.Normalize(guildID)
			s.configs[guildID] = cfg
		}
	}
	if c := s.legacyCounter; c != nil {
		if _, ok := s.counters[guildID]; ok {
			s.l.Warn("Guild already has a ticket counter, ignoring single-guild record", slog.String(logging.KeyGuildID, guildID))
		} else {
			c.GuildID = guildID
			s.counters[guildID] = c
		}
	}

	s.l.Info("Adopted single-guild state files", slog.String(logging.KeyGuildID, guildID))
	s.legacyConfig = nil
	s.legacyCounter = nil
}

func hasAnyKey(m map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// readJSONFile decodes the file into v and returns its bytes. A missing file returns nil bytes.
func readJSONFile(path string, v any) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := decodeJSON(filepath.Base(path), raw, v); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeJSON(name string, raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedState, name, err)
	}
	return nil
}

// writeJSONFile replaces the file through a rename so a crash never leaves half a document.
func writeJSONFile(path string, v any) (err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		monitoring.FileStoreWrites.WithLabelValues(filepath.Base(path), status).Inc()
	}()

	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.adoptLegacy(guildID)

	cfg, ok := s.configs[guildID]
	if !ok {
		return entities.NewGuildTicketConfig(guildID), nil
	}
	return cfg.Clone(), nil
}

func (s *FileStore) Save(_ context.Context, cfg *entities.GuildTicketConfig) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.adoptLegacy(cfg.GuildID)

	prev, existed := s.configs[cfg.GuildID]
	s.configs[cfg.GuildID] = cfg.Clone()

	if err := writeJSONFile(filepath.Join(s.dir, ConfigFileName), s.configs); err != nil {
		if existed {
			s.configs[cfg.GuildID] = prev
		} else {
			delete(s.configs, cfg.GuildID)
		}
		return fmt.Errorf("error saving ticket config: %w", err)
	}
	return nil
}

// Next loads, increments and persists the counter under the store lock.
func (s *FileStore) Next(_ context.Context, guildID string) (int64, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.adoptLegacy(guildID)

	c, ok := s.counters[guildID]
	if !ok {
		c = &entities.TicketCounter{GuildID: guildID}
		s.counters[guildID] = c
	}
	c.Counter++

	if err := writeJSONFile(filepath.Join(s.dir, CounterFileName), s.counters); err != nil {
		// The value was never handed out, so it can be taken back.
		c.Counter--
		return 0, fmt.Errorf("error saving ticket counter: %w", err)
	}
	return c.Counter, nil
}

func (s *FileStore) Current(_ context.Context, guildID string) (int64, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.adoptLegacy(guildID)

	if c, ok := s.counters[guildID]; ok {
		return c.Counter, nil
	}
	return 0, nil
}
