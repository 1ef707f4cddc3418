package entities

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// EntryMode is the style of the ticket entry point last rendered in a guild.
type EntryMode string

const (
	// EntryModeButton renders a single "Create Ticket" button.
	EntryModeButton EntryMode = "button"

	// EntryModeDropdown renders a menu of ticket categories.
	EntryModeDropdown EntryMode = "dropdown"
)

// Valid reports whether the mode is one of the known modes.
func (m EntryMode) Valid() bool {
	return m == EntryModeButton || m == EntryModeDropdown
}

// GuildTicketConfig is the ticketing configuration of a guild.
// The json keys are those of the single-guild record the file store still adopts.
type GuildTicketConfig struct {
	// GuildID is the ID of the guild the configuration belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// TicketCategoryID is the category new ticket channels are created under.
	// Ticket creation is disabled while it is empty.
	TicketCategoryID string `json:"ticket_category,omitempty" bson:"ticket_category,omitempty"`

	// TranscriptChannelID is where transcripts are delivered on closure.
	// Delivery is skipped while it is empty.
	TranscriptChannelID string `json:"transcript_channel,omitempty" bson:"transcript_channel,omitempty"`

	// SupportRoleIDs are the roles given access to every new ticket.
	SupportRoleIDs []string `json:"support_roles" bson:"support_roles"`

	// EntryMode is the last entry point style rendered. Informational only.
	EntryMode EntryMode `json:"ticket_type" bson:"ticket_type"`

	// TicketMessage is kept so old records round trip. Nothing reads it.
	TicketMessage *string `json:"ticket_message" bson:"ticket_message,omitempty"`
}

// NewGuildTicketConfig returns the default configuration for a guild.
func NewGuildTicketConfig(guildID string) *GuildTicketConfig {
	return &GuildTicketConfig{
		GuildID:        guildID,
		SupportRoleIDs: make([]string, 0),
		EntryMode:      EntryModeButton,
	}
}

// Normalize fills the zero values a decoded record may be missing.
func (c *GuildTicketConfig) Normalize(guildID string) {
	if c.GuildID == "" {
		c.GuildID = guildID
	}
	if c.SupportRoleIDs == nil {
		c.SupportRoleIDs = make([]string, 0)
	}
	if c.EntryMode == "" {
		c.EntryMode = EntryModeButton
	}
}

// HasSupportRole reports whether the role is configured as a support role.
func (c *GuildTicketConfig) HasSupportRole(roleID string) bool {
	return mapset.NewThreadUnsafeSet(c.SupportRoleIDs...).Contains(roleID)
}

// AddSupportRole adds the role, returning false if it was already present.
func (c *GuildTicketConfig) AddSupportRole(roleID string) bool {
	if c.HasSupportRole(roleID) {
		return false
	}
	c.SupportRoleIDs = append(c.SupportRoleIDs, roleID)
	return true
}

// RemoveSupportRole removes the role, returning false if it was not present.
func (c *GuildTicketConfig) RemoveSupportRole(roleID string) bool {
	kept := make([]string, 0, len(c.SupportRoleIDs))
	for _, id := range c.SupportRoleIDs {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	removed := len(kept) != len(c.SupportRoleIDs)
	c.SupportRoleIDs = kept
	return removed
}

// Clone returns a deep copy of the configuration.
func (c *GuildTicketConfig) Clone() *GuildTicketConfig {
	cp := *c
	cp.SupportRoleIDs = append(make([]string, 0, len(c.SupportRoleIDs)), c.SupportRoleIDs...)
	if c.TicketMessage != nil {
		msg := *c.TicketMessage
		cp.TicketMessage = &msg
	}
	return &cp
}
