package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bookly/internal/auth"
	"bookly/internal/config"
	"bookly/internal/db"
	"bookly/internal/httpapi"
	"bookly/internal/mail"
	"bookly/internal/otel"
	"bookly/internal/service"
	"bookly/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if err := db.Seed(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connect redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}()

	// Revoked tokens stay listed for the longest lifetime a token can
	// have, so every revoked jti outlives its token.
	blocklist := auth.NewRedisBlocklist(redisClient, cfg.RefreshTokenTTL)

	var mailQueue httpapi.MailEnqueuer
	queue, err := mail.NewQueue(cfg.NATSURL)
	if err != nil {
		log.Warn().Err(err).Msg("mail queue unavailable, email delivery degraded")
	} else {
		defer queue.Close()
		mailQueue = queue
	}

	api, err := httpapi.New(httpapi.Options{
		Users:           service.NewUsers(database),
		Books:           service.NewBooks(database),
		Reviews:         service.NewReviews(database),
		Audit:           service.NewAudit(database),
		Mail:            mailQueue,
		Codec:           auth.NewCodec([]byte(cfg.JWTSigningKey)),
		Hasher:          auth.NewHasher(0),
		Blocklist:       blocklist,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		EmailTokenTTL:   cfg.EmailTokenTTL,
		Domain:          cfg.Domain,
		AllowedOrigins:  cfg.AllowedOrigins,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init api")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", version.Version).Msg("starting " + version.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
