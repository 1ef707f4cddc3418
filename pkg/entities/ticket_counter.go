package entities

// TicketCounter is the persisted ticket sequence of a guild.
type TicketCounter struct {
	// GuildID is the ID of the guild the counter belongs to.
	GuildID string `json:"guild_id,omitempty" bson:"guild_id"`

	// Counter is the last issued ticket number. Zero means none issued.
	Counter int64 `json:"counter" bson:"counter"`
}
