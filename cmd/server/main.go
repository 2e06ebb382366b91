package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/bookora/be-booking-access/internal/config"
	"github.com/bookora/be-booking-access/internal/handler"
	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/internal/router"
	"github.com/bookora/be-booking-access/internal/service"
	jwtpkg "github.com/bookora/be-booking-access/pkg/jwt"
	"github.com/bookora/be-booking-access/pkg/kvstore"
	"github.com/bookora/be-booking-access/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		ServiceName: "booking-access",
		Pretty:      cfg.Pretty,
	})

	privateKeyPEM := cfg.JWTPrivateKey
	publicKeyPEM := cfg.JWTPublicKey
	if privateKeyPEM == "" || publicKeyPEM == "" {
		log.Info().Msg("Generating JWT key pair (development mode)")
		var err error
		privateKeyPEM, publicKeyPEM, err = jwtpkg.GenerateKeyPair()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate JWT key pair")
		}
	}

	jwtManager, err := jwtpkg.NewManager(privateKeyPEM, publicKeyPEM, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create JWT manager")
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping redis")
	}
	defer redisClient.Close()
	log.Info().Msg("Redis connection established")

	userRepo := repository.NewUserRepository(dbPool, log)
	partnerRepo := repository.NewPartnerRepository(dbPool, log)
	operatorRepo := repository.NewOperatorRepository(dbPool, log)
	servicePointRepo := repository.NewServicePointRepository(dbPool, log)
	assignmentRepo := repository.NewAssignmentRepository(dbPool, log)
	bookingRepo := repository.NewBookingRepository(dbPool, log)

	selectionStore := kvstore.NewRedisStore(redisClient, "booking-access")

	authService := service.NewAuthService(userRepo, jwtManager, log)
	assignmentService := service.NewAssignmentService(operatorRepo, servicePointRepo, assignmentRepo, log)
	workingPointService := service.NewWorkingPointService(assignmentRepo, selectionStore, log)

	authenticator := middleware.NewAuthenticator(authService, assignmentRepo, log)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, workingPointService, log),
		Me:            handler.NewMeHandler(),
		Assignments:   handler.NewAssignmentHandler(assignmentService, log),
		WorkingPoints: handler.NewWorkingPointHandler(workingPointService, log),
		Bookings:      handler.NewBookingHandler(bookingRepo, log),
		Catalog:       handler.NewCatalogHandler(partnerRepo, servicePointRepo, operatorRepo, log),
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(handlers, authenticator, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
