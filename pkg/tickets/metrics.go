package tickets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsCreated is the total number of tickets created.
	TicketsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Total number of tickets created",
		},
		[]string{"category"},
	)

	// TicketsClosed is the total number of tickets closed.
	TicketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_closed_total",
			Help: "Total number of tickets closed",
		},
	)

	// TicketOperationFailures is the total number of failed ticket operations.
	TicketOperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_operation_failures_total",
			Help: "Total number of failed ticket operations",
		},
		[]string{"operation", "stage"},
	)

	// TranscriptMessages is the number of messages captured per transcript.
	TranscriptMessages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tickets_transcript_messages",
			Help:    "Number of messages captured per transcript",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)
