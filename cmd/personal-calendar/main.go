package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"

	"github.com/xlab/closer"
	"github.com/ysaito/personal-calendar/internal/api"
	"github.com/ysaito/personal-calendar/internal/config"
	"github.com/ysaito/personal-calendar/internal/database"
	"github.com/ysaito/personal-calendar/internal/database/user"
	"github.com/ysaito/personal-calendar/internal/eventstore"
	"github.com/ysaito/personal-calendar/internal/pkg/jwt"
	"github.com/ysaito/personal-calendar/internal/pkg/oauth"
	"github.com/ysaito/personal-calendar/internal/redis"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	jwts := jwt.NewManager(config.Secret(), config.JwtTTL())
	tokenParser := oauth.NewParser()

	redisPool := redis.NewRedisPool(logger)
	refreshTokens := redis.NewRefreshTokenRepository(redisPool, logger)

	db, err := database.NewPGX(ctx)
	if err != nil {
		logger.Fatalw("unable to initialize db", "err", err)
	}
	usersRepository := user.NewRepository()

	events, err := eventstore.NewGateway(ctx, config.FirebaseProjectID())
	if err != nil {
		logger.Fatalw("unable to initialize event store", "err", err)
	}

	api, err := api.NewApi(
		logger,
		rand.Reader,
		jwts,
		tokenParser,
		refreshTokens,
		db,
		usersRepository,
		events,
	)
	if err != nil {
		logger.Fatalw("unable to initialize api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
