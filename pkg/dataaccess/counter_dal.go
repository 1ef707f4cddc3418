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
	counterDalName = "counter_dal"

	counterCollection = "ticket_counters"
)

type mongoCounterDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// database is the name of the database.
	database string
}

// NewMongoCounterStore creates a counter store backed by MongoDB.
func NewMongoCounterStore(l *slog.Logger, client *mongo.Client, database string) CounterStore {
	return &mongoCounterDal{
		l:        l.With(slog.String(logging.KeyDal, counterDalName)),
		client:   client,
		database: database,
	}
}

// Next increments the counter with a single $inc so concurrent callers are serialized by the server.
func (d *mongoCounterDal) Next(ctx context.Context, guildID string) (int64, error) {
	collection := d.client.Database(d.database).Collection(counterCollection)

	monitoring.MongoTotalRequests.WithLabelValues(counterDalName, "next_ticket_number", d.database, counterCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(counterDalName, "next_ticket_number", d.database, counterCollection))
	defer t.ObserveDuration()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	counter := new(entities.TicketCounter)
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"guild_id": guildID},
		bson.M{"$inc": bson.M{"counter": 1}},
		opts,
	).Decode(counter)
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket counter: %w", err)
	}
	return counter.Counter, nil
}

func (d *mongoCounterDal) Current(ctx context.Context, guildID string) (int64, error) {
	collection := d.client.Database(d.database).Collection(counterCollection)

	monitoring.MongoTotalRequests.WithLabelValues(counterDalName, "get_ticket_counter", d.database, counterCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(counterDalName, "get_ticket_counter", d.database, counterCollection))
	defer t.ObserveDuration()

	counter := new(entities.TicketCounter)
	err := collection.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting ticket counter: %w", err)
	}
	return counter.Counter, nil
}
