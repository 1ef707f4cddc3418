package moderation

import "errors"

var (
	// ErrInsufficientRank is returned when the target is at or above the bot or the actor.
	ErrInsufficientRank = errors.New("insufficient rank")

	// ErrRoleNotFound is returned when the role does not exist in the guild.
	ErrRoleNotFound = errors.New("role not found")

	// ErrMemberNotFound is returned when the target is not a member of the guild.
	ErrMemberNotFound = errors.New("member not found")

	// ErrUserNotFound is returned when no user has the ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleAlreadyAssigned is returned when the member already has the role.
	ErrRoleAlreadyAssigned = errors.New("role already assigned")

	// ErrRoleNotAssigned is returned when the member does not have the role.
	ErrRoleNotAssigned = errors.New("role not assigned")

	// ErrInvalidUserID is returned when a user ID is not a snowflake.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidDuration is returned for a timeout outside the allowed range.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidAmount is returned for a purge amount outside the allowed range.
	ErrInvalidAmount = errors.New("invalid amount")
)
