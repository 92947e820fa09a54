package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/shinyyama/checkin-points/internal/db"
	"github.com/shinyyama/checkin-points/internal/logging"
	"github.com/shinyyama/checkin-points/internal/server"
	log "github.com/sirupsen/logrus"
)

// set with -ldflags "-X main.gitSHA=... -X main.buildTime=..."
var (
	gitSHA    = "dev"
	buildTime = ""
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := db.OpenStore(cfg)
	if err != nil {
		logger.Fatalf("store init error: %v", err)
	}
	accounts, err := auth.NewAccounts(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminName, cfg.Users)
	if err != nil {
		logger.Fatalf("accounts init error: %v", err)
	}
	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)

	srv := server.New(store, accounts, tokens, server.Options{
		CORSOrigins: cfg.CORSOrigins,
		GitSHA:      gitSHA,
		BuildTime:   buildTime,
		Logger:      logger,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server stopped: %v", err)
		}
	case s := <-sig:
		logger.Infof("received %s, shutting down", s)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("shutdown error: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Errorf("store close error: %v", err)
	}
}
