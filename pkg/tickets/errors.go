package tickets

import "errors"

var (
	// ErrConfigurationMissing is returned when no ticket category is configured.
	ErrConfigurationMissing = errors.New("ticket category is not configured")

	// ErrCategoryNotFound is returned when the configured category no longer exists.
	ErrCategoryNotFound = errors.New("ticket category not found")

	// ErrChannelNotFound is returned when a referenced channel no longer exists.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNotATicketChannel is returned when a ticket operation targets a channel that is not a ticket.
	ErrNotATicketChannel = errors.New("channel is not a ticket channel")

	// ErrTranscriptDeliveryFailed is reported when the transcript could not be archived.
	// It never stops a ticket from closing.
	ErrTranscriptDeliveryFailed = errors.New("transcript delivery failed")
)
