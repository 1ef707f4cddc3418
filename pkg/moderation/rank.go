package moderation

import (
	"math"

	"github.com/Jacobbrewer1/discordgo"
)

// OwnerRank outranks every role.
const OwnerRank = math.MaxInt32

// Rank is the authority of a member: the position of their highest role, or OwnerRank for
// the guild owner. Members without roles have rank 0, the position of @everyone.
func Rank(g *discordgo.Guild, m *discordgo.Member) int {
	if m == nil {
		return 0
	}
	if m.User != nil && m.User.ID == g.OwnerID {
		return OwnerRank
	}

	top := 0
	for _, id := range m.Roles {
		if r := findRole(g, id); r != nil && r.Position > top {
			top = r.Position
		}
	}
	return top
}

func findRole(g *discordgo.Guild, roleID string) *discordgo.Role {
	for _, r := range g.Roles {
		if r.ID == roleID {
			return r
		}
	}
	return nil
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}
