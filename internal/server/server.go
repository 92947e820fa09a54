package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/handler"
	appmw "github.com/shinyyama/checkin-points/internal/middleware"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/shinyyama/checkin-points/internal/service"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	CORSOrigins []string
	GitSHA      string
	BuildTime   string
	Logger      *log.Logger
}

type Server struct {
	e     *echo.Echo
	store repository.Store
}

func New(store repository.Store, accounts *auth.Accounts, tokens *auth.TokenIssuer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	authSvc := service.NewAuthService(accounts, tokens)
	authHandler := handler.NewAuthHandler(authSvc)
	memberHandler := handler.NewMemberHandler(service.NewMemberService(store))
	teamHandler := handler.NewTeamHandler(service.NewTeamService(store))
	eventHandler := handler.NewEventHandler(service.NewEventService(store))
	ledgerHandler := handler.NewLedgerHandler(service.NewLedgerService(store))
	reportHandler := handler.NewReportHandler(service.NewReportService(store))

	authMw := appmw.NewAuthMiddleware(authSvc)
	admin := []echo.MiddlewareFunc{authMw.RequireAuth, authMw.RequireAdmin}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.GitSHA,
			"build_time": opts.BuildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMw.RequireAuth)

	api.GET("/members", memberHandler.List, authMw.RequireAuth)
	api.GET("/members/:id", memberHandler.Get, authMw.RequireAuth)
	api.POST("/members", memberHandler.Create, admin...)
	api.PUT("/members/:id", memberHandler.Update, admin...)
	api.DELETE("/members/:id", memberHandler.Delete, admin...)
	api.POST("/members/reset-all-points", ledgerHandler.ResetAllPoints, admin...)
	api.DELETE("/members/:id/points", ledgerHandler.ClearMemberPoints, admin...)

	api.GET("/teams", teamHandler.List, authMw.RequireAuth)
	api.POST("/teams", teamHandler.Create, admin...)

	api.GET("/events", eventHandler.List, authMw.RequireAuth)
	api.GET("/events/:id", eventHandler.Get, authMw.RequireAuth)
	api.POST("/events", eventHandler.Create, admin...)
	api.PUT("/events/:id", eventHandler.Update, admin...)
	api.DELETE("/events/:id", eventHandler.Delete, admin...)

	api.POST("/checkin", ledgerHandler.CheckIn, authMw.RequireAuth)
	api.POST("/checkin/batch", ledgerHandler.BatchCheckIn, authMw.RequireAuth)
	api.GET("/checkin-records", reportHandler.ListRecords, authMw.RequireAuth)
	api.DELETE("/checkin-records/:id", ledgerHandler.DeleteRecord, admin...)

	api.GET("/leaderboard", reportHandler.Leaderboard, authMw.RequireAuth)
	api.GET("/statistics", reportHandler.Statistics, admin...)
	api.POST("/system/reset-all", ledgerHandler.ResetSystem, admin...)

	return &Server{e: e, store: store}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown drains in-flight requests and flushes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.e.Shutdown(ctx); err != nil {
		return err
	}
	return s.store.Persist(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}
