package tickets

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
)

// Custom IDs of the ticket controls. They are the routing keys of the interaction dispatch
// table and must never change, since controls posted before a restart still carry them.
const (
	// CreateTicketButtonID is the ID of the direct entry point button.
	CreateTicketButtonID = "create_ticket"

	// TicketDropdownID is the ID of the categorized entry point menu.
	TicketDropdownID = "ticket_dropdown"

	// CloseTicketButtonID is the ID of the in-ticket close button.
	CloseTicketButtonID = "close_ticket"
)

const (
	// TicketEmoji is used on the entry points. (Ticket)
	TicketEmoji = "\U0001F3AB"

	// CloseEmoji is used on the close button. (Lock)
	CloseEmoji = "\U0001F512"
)

const (
	colorGreen = 0x2ecc71
	colorBlue  = 0x3498db
	colorRed   = 0xe74c3c
)

// EntryPanel renders the entry point for the mode.
func EntryPanel(mode entities.EntryMode) *discordgo.MessageSend {
	if mode == entities.EntryModeDropdown {
		return DropdownPanel()
	}
	return ButtonPanel()
}

// ButtonPanel renders the direct entry point: one button that opens a "General" ticket.
func ButtonPanel() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("%s Support Tickets", TicketEmoji),
				Description: "Click the button below to create a support ticket!",
				Color:       colorBlue,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Create Ticket", TicketEmoji),
						Style:    discordgo.SuccessButton,
						CustomID: CreateTicketButtonID,
					},
				},
			},
		},
	}
}

// DropdownPanel renders the categorized entry point: a menu with one option per category.
func DropdownPanel() *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(Categories))
	for _, c := range Categories {
		options = append(options, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("%s %s", c.Emoji, c.Label),
			Value:       c.Label,
			Description: c.Description,
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("%s Support Tickets", TicketEmoji),
				Description: "Select a ticket type from the dropdown menu below!",
				Color:       colorBlue,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    TicketDropdownID,
						Placeholder: "Select a ticket type...",
						Options:     options,
					},
				},
			},
		},
	}
}

// CloseControl renders the close button placed once in every ticket.
func CloseControl() discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    fmt.Sprintf("%s Close Ticket", CloseEmoji),
				Style:    discordgo.DangerButton,
				CustomID: CloseTicketButtonID,
			},
		},
	}
}

// TicketNotice renders the introduction posted in a new ticket, with the close control.
func TicketNotice(t *entities.Ticket, now time.Time) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", t.RequesterID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: fmt.Sprintf("Ticket #%d", t.Number),
				Description: fmt.Sprintf("**Type:** %s\n**Created by:** <@%s>\n\nThank you for creating a ticket! Support will be with you shortly.",
					t.Category, t.RequesterID),
				Color:     colorGreen,
				Timestamp: now.UTC().Format(time.RFC3339),
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("Ticket #%d", t.Number),
				},
			},
		},
		Components: []discordgo.MessageComponent{
			CloseControl(),
		},
	}
}

// ClosingNotice renders the announcement posted just before a ticket channel is deleted.
func ClosingNotice(closerID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("%s Ticket closed by <@%s>. This channel will now be deleted.", CloseEmoji, closerID),
	}
}

// TranscriptSummary renders the archive message: a summary embed with the transcript attached.
func TranscriptSummary(t *Transcript) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("Ticket Closed: %s", t.ChannelName),
				Description: fmt.Sprintf("Closed by: <@%s>", t.ClosedByID),
				Color:       colorRed,
				Timestamp:   t.ClosedAt.UTC().Format(time.RFC3339),
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "Messages",
						Value:  fmt.Sprintf("%d", len(t.Messages)),
						Inline: true,
					},
				},
			},
		},
		Files: []*discordgo.File{
			{
				Name:        t.FileName(),
				ContentType: "text/plain",
				Reader:      strings.NewReader(t.Render()),
			},
		},
	}
}
