package messages

import (
	"errors"

	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
)

const (
	// ErrUserErrorProcessing is the notice for failures the user cannot fix.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrUserNoPermission is the notice for invokers without the required permission.
	ErrUserNoPermission = "You do not have permission to use this command."

	// ErrUserNotInGuild is the notice for commands used outside a server.
	ErrUserNotInGuild = "This command can only be used in a server."

	ErrConfigurationMissing   = "Ticket category not set! Use `/ticketing category` first."
	ErrCategoryNotFound       = "The ticket category no longer exists! Set it again with `/ticketing category`."
	ErrChannelNotFound        = "That channel no longer exists."
	ErrRoleNotFound           = "That role no longer exists."
	ErrNotATicketChannel      = "This is not a ticket channel!"
	ErrInsufficientRank       = "You cannot do that to someone at or above my highest role, or yours."
	ErrMemberNotFound         = "That user is not a member of this server."
	ErrUserNotFound           = "No user exists with that ID."
	ErrRoleAlreadyAssigned    = "They already have that role."
	ErrRoleNotAssigned        = "They do not have that role."
	ErrInvalidUserID          = "Invalid user ID."
	ErrInvalidDuration        = "Duration must be between 1 and 40320 minutes (28 days)."
	ErrInvalidAmount          = "Amount must be between 1 and 100."
	ErrTranscriptDelivery     = "The ticket was closed, but the transcript could not be delivered."
	ErrUnknownCommandResponse = "Unknown command."
	ErrObjectNotFound         = "That no longer exists."
)

// notices maps domain errors to the notice shown to the invoker. Order matters where errors wrap
// more than one sentinel.
var notices = []struct {
	err    error
	notice string
}{
	{tickets.ErrTranscriptDeliveryFailed, ErrTranscriptDelivery},
	{tickets.ErrConfigurationMissing, ErrConfigurationMissing},
	{tickets.ErrCategoryNotFound, ErrCategoryNotFound},
	{tickets.ErrChannelNotFound, ErrChannelNotFound},
	{tickets.ErrNotATicketChannel, ErrNotATicketChannel},
	{moderation.ErrInsufficientRank, ErrInsufficientRank},
	{moderation.ErrRoleNotFound, ErrRoleNotFound},
	{moderation.ErrMemberNotFound, ErrMemberNotFound},
	{moderation.ErrUserNotFound, ErrUserNotFound},
	{moderation.ErrRoleAlreadyAssigned, ErrRoleAlreadyAssigned},
	{moderation.ErrRoleNotAssigned, ErrRoleNotAssigned},
	{moderation.ErrInvalidUserID, ErrInvalidUserID},
	{moderation.ErrInvalidDuration, ErrInvalidDuration},
	{moderation.ErrInvalidAmount, ErrInvalidAmount},
	{discord.ErrNotFound, ErrObjectNotFound},
}

// ForError returns the private notice to show for err. Errors without a user-facing meaning
// get the generic processing notice.
func ForError(err error) string {
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.notice
		}
	}
	return ErrUserErrorProcessing
}
