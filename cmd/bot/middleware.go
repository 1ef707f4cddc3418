package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// interactionProcessor handles one slash command or component interaction.
type interactionProcessor func(ctx context.Context, a *App, i *discordgo.InteractionCreate) error

// slashCommand is an entry of the slash command dispatch table.
type slashCommand struct {
	// def is the definition registered with the platform.
	def *discordgo.ApplicationCommand

	// permission is required from the invoker, 0 for everyone.
	permission int64

	// processor handles the command.
	processor interactionProcessor
}

// componentHandler is an entry of the component dispatch table, keyed by custom ID.
type componentHandler struct {
	// permission is required from the invoker, 0 for everyone.
	permission int64

	// processor handles the activation.
	processor interactionProcessor
}

func middlewareHttp(a IApp, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the request has been handled.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes interactions through the dispatch tables. Components are routed by
// custom ID only, so controls sent before a restart keep working.
func interactionHandler(a *App, slash map[string]*slashCommand, components map[string]*componentHandler) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			name       string
			permission int64
			processor  interactionProcessor
		)

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
			if c, ok := slash[name]; ok {
				permission, processor = c.permission, c.processor
			}
		case discordgo.InteractionMessageComponent:
			name = i.MessageComponentData().CustomID
			if c, ok := components[name]; ok {
				permission, processor = c.permission, c.processor
			}
		default:
			return
		}

		userID := ""
		if u := invoker(i); u != nil {
			userID = u.ID
		}

		l := a.With(
			slog.String(logging.KeyTraceID, uuid.New().String()),
			slog.String("interaction", name),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, userID),
		)

		defer func() {
			if rec := recover(); rec != nil {
				DiscordCommandErrors.WithLabelValues(name).Inc()
				l.Error("Panic in interaction",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondEphemeral(a, i, messages.ErrUserErrorProcessing); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		if processor == nil {
			l.Warn("No processor found for interaction")
			if err := respondEphemeral(a, i, messages.ErrUnknownCommandResponse); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if i.GuildID == "" {
			if err := respondEphemeral(a, i, messages.ErrUserNotInGuild); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if !hasPermission(i, permission) {
			l.Info("Interaction refused, missing permission")
			if err := respondEphemeral(a, i, messages.ErrUserNoPermission); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		t := time.Now()
		defer func() {
			DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
		}()

		l.Debug("Handling interaction")
		if err := processor(context.Background(), a, i); err != nil {
			DiscordCommandErrors.WithLabelValues(name).Inc()
			l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))

			if err := respondError(a, i, err); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}
