package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/8gymsport-prog/penjualan/internal/api"
	"github.com/8gymsport-prog/penjualan/internal/auth"
	"github.com/8gymsport-prog/penjualan/internal/cache"
	"github.com/8gymsport-prog/penjualan/internal/chat"
	"github.com/8gymsport-prog/penjualan/internal/config"
	"github.com/8gymsport-prog/penjualan/internal/events"
	"github.com/8gymsport-prog/penjualan/internal/reports"
	"github.com/8gymsport-prog/penjualan/internal/services"
	"github.com/8gymsport-prog/penjualan/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting Kassa API", "port", cfg.HTTPPort, "timezone", cfg.ReportTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Failed to migrate schema", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.NewClient(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	var publisher events.Publisher = events.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("Publishing events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	accounts := services.NewAccountService(db, cfg.MaxAvatarBytes)
	catalog := services.NewCatalogService(db)
	sales := services.NewSalesService(db, db, cache.NewSummaryCache(redisClient, cfg.SummaryCacheTTL), publisher)
	chats := services.NewChatService(db, db, nil)

	hub := chat.NewHub(chats)
	relay := chat.NewRedisRelay(redisClient, hub)
	hub.SetAllowedOrigins(cfg.CORSAllowedOrigins)
	chats.SetNotifier(relay)

	go relay.Serve(ctx, time.Second, 30*time.Second)

	var reportFont *reports.Font
	if cfg.ReportFontPath != "" {
		reportFont, err = reports.LoadFont(cfg.ReportFontPath, cfg.ReportFontBoldPath)
		if err != nil {
			slog.Error("Failed to load report font", "path", cfg.ReportFontPath, "error", err)
			os.Exit(1)
		}
	}

	handler := api.NewHandler(api.Deps{
		Accounts:   accounts,
		Catalog:    catalog,
		Sales:      sales,
		Chats:      chats,
		ChatSocket: http.HandlerFunc(hub.ServeWS),
		Limiter:    redisClient,
		Health: map[string]api.Pinger{
			"postgres": db,
			"redis":    redisClient,
		},
	}, api.Options{
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
		MaxAvatarBytes:     cfg.MaxAvatarBytes,
		Location:           loc,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ReportFont:         reportFont,
	})
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", handler.Router(authMiddleware))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
