package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuildTicketConfig_SupportRoles(t *testing.T) {
	c := NewGuildTicketConfig("guild")

	require.True(t, c.AddSupportRole("r1"))
	require.True(t, c.AddSupportRole("r2"))
	require.False(t, c.AddSupportRole("r1"))
	require.Equal(t, []string{"r1", "r2"}, c.SupportRoleIDs)
	require.True(t, c.HasSupportRole("r2"))

	require.True(t, c.RemoveSupportRole("r1"))
	require.False(t, c.RemoveSupportRole("r1"))
	require.Equal(t, []string{"r2"}, c.SupportRoleIDs)
	require.False(t, c.HasSupportRole("r1"))
}

func TestGuildTicketConfig_Clone(t *testing.T) {
	msg := "legacy"
	c := NewGuildTicketConfig("guild")
	c.SupportRoleIDs = []string{"r1"}
	c.TicketMessage = &msg

	cp := c.Clone()
	cp.SupportRoleIDs[0] = "changed"
	*cp.TicketMessage = "changed"

	require.Equal(t, "r1", c.SupportRoleIDs[0])
	require.Equal(t, "legacy", *c.TicketMessage)
}

func TestGuildTicketConfig_Normalize(t *testing.T) {
	c := new(GuildTicketConfig)
	c.Normalize("guild")

	require.Equal(t, "guild", c.GuildID)
	require.NotNil(t, c.SupportRoleIDs)
	require.Equal(t, EntryModeButton, c.EntryMode)
	require.True(t, c.EntryMode.Valid())
	require.False(t, EntryMode("modal").Valid())
}
