package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sony/gobreaker"

	"github.com/dtroode/daycare-server/internal/api/grpc/health"
	grpcRouter "github.com/dtroode/daycare-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/daycare-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/daycare-server/internal/api/http/context"
	"github.com/dtroode/daycare-server/internal/api/http/handler"
	httpRouter "github.com/dtroode/daycare-server/internal/api/http/router"
	httpServer "github.com/dtroode/daycare-server/internal/api/http/server"
	"github.com/dtroode/daycare-server/internal/config"
	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/metrics"
	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/repository/postgres"
	"github.com/dtroode/daycare-server/internal/server"
	"github.com/dtroode/daycare-server/internal/service"
	"github.com/dtroode/daycare-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	conn, err := postgres.NewConection(ctx, cfg.Database.DSN, postgres.ConnectionOptions{
		MaxConns: cfg.Database.MaxConns,
		Migrate:  cfg.Database.Migrate,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer conn.Close()

	reg := metrics.NewRegistry()

	var db postgres.DBTX = postgres.NewInstrumentedDB(conn.DB(), reg)
	if cfg.Breaker.Enabled {
		cb := postgres.NewCircuitBreaker("postgres", postgres.BreakerSettings{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
				reg.SetBreakerState(name, int(to))
			},
		})
		db = postgres.NewBreakerDB(db, cb)
	}
	repos := postgres.NewRepositories(db)

	userService := service.NewUsers(repos.Users, logger)
	childService := service.NewChildren(repos.Children, repos.Users, logger)

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := httpctx.NewManager()

	h := handler.New(userService, childService, logger)
	mux := httpRouter.New(h, conn, tokenManager, ctxMgr, reg, reg.Handler(), logger).Register()
	apiServer := httpServer.NewHTTPServer(mux, fmt.Sprintf(":%s", cfg.HTTP.Port))

	checker := health.NewChecker(conn, cfg.GRPC.HealthInterval, logger)
	healthServer := grpcServer.NewGRPCServer(
		grpcRouter.New(checker, logger).Register(),
		fmt.Sprintf(":%s", cfg.GRPC.Port),
	)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		childService.RunAgeRefresh(ctx, cfg.Database.AgeRefreshInterval)
	}()

	servers := []model.Server{apiServer, healthServer}
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
