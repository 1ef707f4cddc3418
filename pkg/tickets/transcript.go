package tickets

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

const (
	// historyPageSize is the largest page the platform serves.
	historyPageSize = 100

	transcriptTimeLayout = "2006-01-02 15:04:05"
)

// Transcript is the archived rendering of a ticket's history at closure.
type Transcript struct {
	// ChannelName is the name of the ticket channel.
	ChannelName string

	// ClosedBy is the display name of the user that closed the ticket.
	ClosedBy string

	// ClosedByID is the ID of the user that closed the ticket.
	ClosedByID string

	// ClosedAt is when the ticket was closed.
	ClosedAt time.Time

	// Messages is the full history of the channel, oldest first.
	Messages []*discordgo.Message
}

// FileName is the name of the transcript attachment.
func (t *Transcript) FileName() string {
	return t.ChannelName + "-transcript.txt"
}

// Render returns the plain text transcript: a header, then one entry per message with its
// attachments and embeds listed underneath.
func (t *Transcript) Render() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Transcript for %s\n", t.ChannelName))
	sb.WriteString(fmt.Sprintf("Closed by: %s\n", t.ClosedBy))
	sb.WriteString(fmt.Sprintf("Closed at: %s UTC\n", t.ClosedAt.UTC().Format(transcriptTimeLayout)))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, m := range t.Messages {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", m.Timestamp.UTC().Format(transcriptTimeLayout), DisplayName(m.Author), m.Content))
		for _, a := range m.Attachments {
			if a == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("  [Attachment: %s]\n", a.URL))
		}
		for _, e := range m.Embeds {
			if e == nil || e.Title == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("  [Embed: %s]\n", e.Title))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// DisplayName renders a user the way transcripts show authors.
func DisplayName(u *discordgo.User) string {
	switch {
	case u == nil:
		return "Unknown"
	case u.Discriminator != "" && u.Discriminator != "0":
		return u.Username + "#" + u.Discriminator
	default:
		return u.Username
	}
}

// fetchHistory pages backwards through the whole channel and returns it oldest first.
func fetchHistory(ctx context.Context, p Platform, channelID string) ([]*discordgo.Message, error) {
	history := make([]*discordgo.Message, 0, historyPageSize)
	before := ""
	for {
		page, err := p.ChannelMessages(ctx, channelID, historyPageSize, before)
		if err != nil {
			return nil, fmt.Errorf("error getting channel history: %w", err)
		}

		history = append(history, page...)
		if len(page) < historyPageSize {
			break
		}
		before = page[len(page)-1].ID
	}

	slices.Reverse(history)
	return history, nil
}
