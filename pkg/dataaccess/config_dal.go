package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	configDalName = "config_dal"

	configCollection = "ticket_configs"
)

type mongoConfigDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// database is the name of the database.
	database string
}

// NewMongoConfigStore creates a config store backed by MongoDB.
func NewMongoConfigStore(l *slog.Logger, client *mongo.Client, database string) ConfigStore {
	return &mongoConfigDal{
		l:        l.With(slog.String(logging.KeyDal, configDalName)),
		client:   client,
		database: database,
	}
}

func (d *mongoConfigDal) Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	collection := d.client.Database(d.database).Collection(configCollection)

	monitoring.MongoTotalRequests.WithLabelValues(configDalName, "get_ticket_config", d.database, configCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(configDalName, "get_ticket_config", d.database, configCollection))
	defer t.ObserveDuration()

	cfg := new(entities.GuildTicketConfig)
	err := collection.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		d.l.Debug("No ticket config stored, using defaults", slog.String(logging.KeyGuildID, guildID))
		return entities.NewGuildTicketConfig(guildID), nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket config: %w", err)
	}

	cfg.Normalize(guildID)
	return cfg, nil
}

func (d *mongoConfigDal) Save(ctx context.Context, cfg *entities.GuildTicketConfig) error {
	collection := d.client.Database(d.database).Collection(configCollection)

	monitoring.MongoTotalRequests.WithLabelValues(configDalName, "save_ticket_config", d.database, configCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(configDalName, "save_ticket_config", d.database, configCollection))
	defer t.ObserveDuration()

	// The whole record is replaced, never patched.
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"guild_id": cfg.GuildID}, cfg, opts); err != nil {
		return fmt.Errorf("error saving ticket config: %w", err)
	}
	return nil
}
