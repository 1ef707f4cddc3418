package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

// ErrNotFound is returned when the platform object no longer exists.
var ErrNotFound = errors.New("discord object not found")

// IsNotFound reports whether err is a REST error for a missing object.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
			return true
		}
	}
	return false
}

// wrap annotates err and marks missing objects with ErrNotFound.
func wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
