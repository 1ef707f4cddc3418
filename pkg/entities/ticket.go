package entities

import (
	"fmt"
	"regexp"
	"strconv"
)

// TicketChannelPrefix is the prefix of every ticket channel name.
const TicketChannelPrefix = "ticket-"

// DefaultTicketCategory is the category label used by the direct entry point.
const DefaultTicketCategory = "General"

var ticketNameRegex = regexp.MustCompile(`^ticket-([1-9][0-9]*)$`)

// Ticket is a support ticket. Its state of record is the channel it lives in.
type Ticket struct {
	// Number is the guild sequence number of the ticket.
	Number int64 `json:"number"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id"`

	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id"`

	// RequesterID is the ID of the user that created the ticket.
	RequesterID string `json:"requester_id"`

	// Category is the label chosen when the ticket was created.
	Category string `json:"category"`
}

// Name returns the channel name of the ticket, for example "ticket-12".
func (t *Ticket) Name() string {
	return TicketName(t.Number)
}

// TicketName returns the channel name for a ticket number.
func TicketName(number int64) string {
	return fmt.Sprintf("%s%d", TicketChannelPrefix, number)
}

// ParseTicketName returns the ticket number encoded in a channel name.
// Only names of the exact form "ticket-<positive integer>" are accepted.
func ParseTicketName(name string) (int64, bool) {
	m := ticketNameRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTicketChannelName reports whether the channel name follows the ticket naming convention.
func IsTicketChannelName(name string) bool {
	_, ok := ParseTicketName(name)
	return ok
}
