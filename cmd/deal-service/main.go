package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/LavaJover/shvark-deal-service/internal/app/background"
	"github.com/LavaJover/shvark-deal-service/internal/app/setup"
	"github.com/LavaJover/shvark-deal-service/internal/config"
	"github.com/LavaJover/shvark-deal-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser := logger.New(cfg.LogConfig, "deal-service", cfg.Env)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	uc := setup.InitializeUseCases(deps)

	// Background: reclamation sweep and restaurant projection sync
	tasks := background.NewBackgroundTasks(
		uc.ReclamationUsecase,
		uc.RestaurantSync,
		deps.Subscriber,
		cfg.Engine.SweepInterval,
		cfg.KafkaService.RestaurantTopic,
		cfg.KafkaService.RestaurantGroup,
	)
	tasks.StartAll(ctx)

	// gRPC health
	healthMonitor := grpcapi.NewHealthMonitor(deps.Ping, 0)
	go healthMonitor.Run(ctx)
	grpcServer := grpcapi.NewServer(healthMonitor)

	grpcAddr := fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err.Error())
			stop()
		}
	}()

	// HTTP API
	validate := handlers.NewValidator()
	router := handlers.NewRouter(handlers.RouterOptions{
		Deals:          handlers.NewDealHandler(uc.DealUsecase, validate),
		Redemptions:    handlers.NewRedemptionHandler(uc.RedemptionUsecase, validate),
		Gatherer:       deps.Registry,
		Health:         deps.Ping,
		RequestTimeout: cfg.HTTPServer.WriteTimeout,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	healthMonitor.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err.Error())
	}
	grpcServer.GracefulStop()
	tasks.Wait()
	slog.Info("shutdown complete")
}
