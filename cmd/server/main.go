package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ozhegovsv/storefront/internal/cart"
	"github.com/ozhegovsv/storefront/internal/config"
	"github.com/ozhegovsv/storefront/internal/es"
	"github.com/ozhegovsv/storefront/internal/handlers"
	cartHandlers "github.com/ozhegovsv/storefront/internal/handlers/cart"
	"github.com/ozhegovsv/storefront/internal/handlers/checkout"
	"github.com/ozhegovsv/storefront/internal/logging"
	loggingmw "github.com/ozhegovsv/storefront/internal/middleware/logging"
	"github.com/ozhegovsv/storefront/internal/mykafka"
	"github.com/ozhegovsv/storefront/internal/session"
	"github.com/ozhegovsv/storefront/internal/service/token"
	httpserver "github.com/ozhegovsv/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(session.Middleware())

	carts := &cart.Store{DB: db}
	tokenService := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	indexer := &es.Indexer{ES: esClient, Index: configuration.ES_INDEX}

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod, Carts: carts},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, Indexer: indexer},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: configuration.ES_INDEX},
		OrderHandler:    &handlers.OrderHandler{DB: db},
		CartHandler:     &cartHandlers.CartHandler{DB: db, Carts: carts, Producer: prod},
		CheckoutHandler: &checkout.CheckoutHandler{DB: db, Carts: carts, Producer: prod},
		TokenService:    tokenService,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		slog.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("db close error", "err", err)
		}
	} else {
		slog.Error("db() error", "err", err)
	}

	if err := prod.Close(); err != nil {
		slog.Error("kafka close error", "err", err)
	}

	slog.Info("shutdown complete")
}
