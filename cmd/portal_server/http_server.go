package main

import (
	"crypto/rand"
	"log/slog"
	"runtime/pprof"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/projectarcadia/portal/pkg/log"
)

type HttpServer struct {
	log      *slog.Logger
	f        *fiber.App
	app      *App
	tokenKey []byte
}

func NewHttpServer(app *App) *HttpServer {
	srv := &HttpServer{
		log:      app.logger.With(slog.String("logger", "http")),
		app:      app,
		tokenKey: []byte(app.config.TokenKey()),
	}

	if len(srv.tokenKey) == 0 {
		srv.log.Warn("no token_key set, sessions will not survive a restart")

		srv.tokenKey = make([]byte, 32)
		_, _ = rand.Read(srv.tokenKey)
	}

	srv.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true})

	srv.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", UserGetter: Username, DoMetrics: true, LogErrorsOnly: true}))

	srv.f.Post("/token", getTokenHandler(srv))

	srv.f.Get("/metrics", getMetricsHandler())
	srv.f.Get("/stack", getStackHandler())

	// public pages work without a token, the access policy decides per page
	srv.f.Get("/pages/:slug", getPageHandler(srv))

	api := srv.f.Group("/api", getAuthMiddleware(srv))

	api.Post("/logout", getLogoutHandler(srv))
	api.Get("/me", getMeHandler(srv))
	api.Post("/me/conduct", getConductHandler(srv))

	api.Get("/member", getMembersHandler(srv))
	api.Post("/member", getMemberPostHandler(srv))
	api.Put("/member/:id", getMemberPutHandler(srv))
	api.Put("/member/:id/permissions", getPermissionsPutHandler(srv))
	api.Put("/member/:id/admin", getAdminPutHandler(srv))
	api.Post("/member/:id/unlock", getUnlockHandler(srv))

	api.Get("/meeting", getMeetingsHandler(srv))
	api.Post("/meeting", getMeetingPostHandler(srv))
	api.Get("/meeting/:id", getMeetingHandler(srv))
	api.Put("/meeting/:id", getMeetingPutHandler(srv))
	api.Delete("/meeting/:id", getMeetingDeleteHandler(srv))
	api.Put("/meeting/:id/invite/:username", getInvitePutHandler(srv))
	api.Delete("/meeting/:id/invite/:username", getInviteDeleteHandler(srv))
	api.Put("/meeting/:id/attendance", getAttendancePutHandler(srv))

	api.Get("/page", getPagesHandler(srv))
	api.Post("/page", getPagePostHandler(srv))
	api.Get("/page/:slug", getPageHandler(srv))
	api.Put("/page/:id", getPagePutHandler(srv))
	api.Delete("/page/:id", getPageDeleteHandler(srv))

	api.Get("/channel", getChannelsHandler(srv))
	api.Post("/channel", getChannelPostHandler(srv))
	api.Get("/channel/:id", getChannelHandler(srv))
	api.Put("/channel/:id", getChannelPutHandler(srv))
	api.Put("/channel/:id/active", getChannelActiveHandler(srv))
	api.Delete("/channel/:id", getChannelDeleteHandler(srv))
	api.Put("/channel/:id/member/:username", getChannelMemberPutHandler(srv))
	api.Delete("/channel/:id/member/:username", getChannelMemberDeleteHandler(srv))
	api.Get("/channel/:id/message", getMessagesHandler(srv))
	api.Post("/channel/:id/message", getMessagePostHandler(srv))
	api.Delete("/message/:id", getMessageDeleteHandler(srv))

	api.Get("/ws", getWsHandler(srv))

	return srv
}

func (srv *HttpServer) Listen(addr string) error {
	srv.log.Info("listening on " + addr)

	return srv.f.Listen(addr)
}

func (srv *HttpServer) Shutdown() error {
	return srv.f.ShutdownWithTimeout(time.Second * 3)
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}
