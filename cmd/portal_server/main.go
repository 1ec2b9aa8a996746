package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/projectarcadia/portal/internal/callbacks"
	"github.com/projectarcadia/portal/internal/config"
	"github.com/projectarcadia/portal/internal/database"
	"github.com/projectarcadia/portal/internal/model"
	"github.com/projectarcadia/portal/internal/repository"
	"github.com/projectarcadia/portal/internal/wshandler"
	"github.com/projectarcadia/portal/pkg/util"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

type App struct {
	logger *slog.Logger
	config *config.AppConfig

	dbm     *database.DatabaseManager
	members repository.MemberRepository

	messageCb *callbacks.Callback[*model.MessageDTO]
	channelCb *callbacks.Callback[*model.ChannelDTO]
	handlers  *util.Holder[wshandler.JSONWsHandler, *wshandler.JSONWsHandler]

	ctx context.Context
}

func NewApp(cfg *config.AppConfig) *App {
	app := &App{
		logger:    slog.Default(),
		config:    cfg,
		messageCb: callbacks.New[*model.MessageDTO](),
		channelCb: callbacks.New[*model.ChannelDTO](),
		handlers:  util.NewHolder[wshandler.JSONWsHandler, *wshandler.JSONWsHandler](),
	}

	db, err := database.GetDatabase(cfg.DB(), cfg.Debug())

	if err != nil {
		panic(err)
	}

	app.dbm = database.New(db)

	if err := app.dbm.Migrate(); err != nil {
		panic(err)
	}

	app.members = repository.NewDbMemberRepo(cfg.MembersFile(), app.dbm, cfg.CacheTTL())

	return app
}

func (app *App) Run() {
	app.dbm.AddDefaults()

	if err := app.members.Start(); err != nil {
		app.logger.Error("error starting member repo", slog.Any("error", err))
		os.Exit(1)
	}

	var cancel context.CancelFunc

	app.ctx, cancel = context.WithCancel(context.Background())

	srv := NewHttpServer(app)

	go func() {
		if err := srv.Listen(app.config.ApiAddr()); err != nil {
			app.logger.Error("server error", slog.Any("error", err))
			cancel()
		}
	}()

	go app.cleaner()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
	case <-app.ctx.Done():
	}

	app.logger.Info("exiting...")
	cancel()

	app.handlers.All(func(h *wshandler.JSONWsHandler) bool {
		h.Stop()

		return true
	})

	app.members.Stop()
	_ = srv.Shutdown()
}

// cleaner drops expired sessions once an hour.
func (app *App) cleaner() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := app.dbm.CleanupSessions(time.Now()); err != nil {
				app.logger.Error("session cleanup error", slog.Any("error", err))
			}
		case <-app.ctx.Done():
			return
		}
	}
}

func main() {
	configName := flag.String("config", "portal.yml", "name of config file")
	debug := flag.Bool("debug", false, "debug")
	flag.Parse()

	cfg := config.NewAppConfig()
	cfg.Load(*configName)

	if err := cfg.LoadEnv("PORTAL_"); err != nil {
		panic(err)
	}

	if *debug {
		_ = cfg.Set("debug", true)
	}

	var h slog.Handler
	if cfg.Debug() {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	slog.Info("starting portal server", slog.String("version", gitRevision), slog.String("branch", gitBranch))

	NewApp(cfg).Run()
}
