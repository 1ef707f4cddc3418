package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"

	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the process configuration.
	cfg *AppConfig

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// platform adapts the discord session for the domain packages.
	platform *discord.Session

	// stores is the persistence layer.
	stores *dataaccess.Stores

	// configs is the guild ticket configuration.
	configs *dataaccess.GuildConfigs

	// tickets runs the ticket lifecycle.
	tickets *tickets.Manager

	// moderator runs moderation actions.
	moderator *moderation.Moderator

	// commands is the slash command dispatch table.
	commands []*slashCommand

	// guilds is the set of guilds the commands were registered in.
	guilds mapset.Set[string]

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *AppConfig,
	r *mux.Router,
	s *discordgo.Session,
	platform *discord.Session,
	stores *dataaccess.Stores,
	configs *dataaccess.GuildConfigs,
	tm *tickets.Manager,
	moderator *moderation.Moderator,
) *App {
	a := &App{
		Logger:    l,
		cfg:       cfg,
		r:         r,
		s:         s,
		platform:  platform,
		stores:    stores,
		configs:   configs,
		tickets:   tm,
		moderator: moderator,
		guilds:    mapset.NewSet[string](),
	}
	a.commands = commandTable()
	return a
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Run() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	if a.eventNotifier == nil {
		// Buffered to keep the gateway reader from blocking on metrics.
		a.eventNotifier = make(chan any, 100)
	}
	a.s.SetEventNotifier(a.eventNotifier)

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.setupRoutes()
	a.runServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	a.Info("Received shutdown signal")
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.svr.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
	}

	// Commands stay registered so controls keep working across restarts.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	if err := a.stores.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error closing %s store: %w", a.stores.Backend, err))
	}
	return errors.Join(errs...)
}

// newDiscordSession creates the discord session from the configured token.
func newDiscordSession(cfg *AppConfig) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)
	return dg, nil
}

func (a *App) runServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

// RegisterDiscordHandlers attaches the gateway handlers and the interaction dispatch tables.
// It runs at every start, which is what keeps previously sent controls routable.
func (a *App) RegisterDiscordHandlers() {
	a.s.AddHandler(a.readyHandler())

	// Bot joined guild.
	a.s.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.s.AddHandler(a.guildLeaveHandler())

	slash := make(map[string]*slashCommand, len(a.commands))
	for _, c := range a.commands {
		slash[c.def.Name] = c
	}

	a.s.AddHandler(interactionHandler(a, slash, componentTable()))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}
