package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-pos/config"
	"restaurant-pos/console"
	"restaurant-pos/handlers"
	"restaurant-pos/logger"
	"restaurant-pos/middleware"
	"restaurant-pos/routes"
	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

const usage = `Usage: restaurant-pos [-config file.yaml] [console|serve]

  console  interactive terminal menus (default)
  serve    HTML form UI over HTTP
`

func main() {
	configPath := flag.String("config", os.Getenv("POS_CONFIG"), "path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	mode := "console"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	if mode != "console" && mode != "serve" {
		flag.Usage()
		os.Exit(2)
	}

	// an interrupt is a normal way to leave either mode
	if err := run(*configPath, mode); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "restaurant-pos:", err)
		os.Exit(1)
	}
}

func run(configPath, mode string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	out, closeOut, err := logOutput(cfg.Log.Output)
	if err != nil {
		return err
	}
	defer closeOut()
	log := logger.New("restaurant-pos", out, logger.ParseLevel(cfg.Log.Level))

	// Initialize database
	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := services.New(db, log, cfg.Billing.Rate)
	created, err := svc.Users.EnsureDefaultAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Warn("startup", "", "created default admin account "+cfg.Auth.AdminUsername+"; change its password")
	}

	if mode == "serve" {
		return serve(ctx, cfg, svc, log)
	}
	return console.New(svc, log, os.Stdin, os.Stdout).Run(ctx)
}

// logOutput opens the configured log destination
func logOutput(dest string) (io.Writer, func(), error) {
	switch dest {
	case "", "stderr":
		return os.Stderr, func() {}, nil
	case "stdout":
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, svc *services.Services, log *logger.Logger) error {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	issuer := middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TTL)
	r, err := routes.NewRouter(handlers.New(svc, issuer, log), issuer, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("startup", "", "server running on http://"+cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown", "", "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
