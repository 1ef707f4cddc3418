package tickets

import "github.com/Jacobbrewer1/warden/pkg/entities"

// Category is a ticket type offered by the categorized entry point.
type Category struct {
	// Label is shown in the menu and stored on the ticket.
	Label string

	// Description is shown under the label in the menu.
	Description string

	// Emoji prefixes the label.
	Emoji string
}

// Categories are the ticket types offered by the dropdown, in menu order.
var Categories = []Category{
	{Label: "General Support", Description: "General questions and support", Emoji: "❓"},
	{Label: "Technical Issue", Description: "Report technical problems", Emoji: "⚙️"},
	{Label: "Report User", Description: "Report a user or issue", Emoji: "⚠️"},
	{Label: "Other", Description: "Other inquiries", Emoji: "\U0001F4AC"},
}

// CategoryFromSelection maps the values of a dropdown activation to a category label.
// Anything unexpected falls back to the default category.
func CategoryFromSelection(values []string) string {
	if len(values) == 0 {
		return entities.DefaultTicketCategory
	}
	for _, c := range Categories {
		if c.Label == values[0] {
			return c.Label
		}
	}
	return entities.DefaultTicketCategory
}
