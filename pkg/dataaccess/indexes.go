package dataaccess

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const indexesDalName = "indexes"

// guildIndexedCollections hold at most one document per guild.
var guildIndexedCollections = []string{configCollection, counterCollection}

// guildIndex makes guild_id unique so concurrent upserts for a new guild cannot both insert.
func guildIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}},
		Options: options.Index().SetName("guild_id_unique").SetUnique(true),
	}
}

// EnsureIndexes creates the unique guild index on every guild keyed collection. Creating an
// index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	for _, name := range guildIndexedCollections {
		monitoring.MongoTotalRequests.WithLabelValues(indexesDalName, "create_index", database, name).Inc()
		t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(indexesDalName, "create_index", database, name))

		_, err := client.Database(database).Collection(name).Indexes().CreateOne(ctx, guildIndex())
		t.ObserveDuration()
		if err != nil {
			return fmt.Errorf("error creating guild index on %s: %w", name, err)
		}
	}
	return nil
}
