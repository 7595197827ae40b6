// Command api serves the taskhub HTTP API.
//
// @title                       taskhub API
// @version                     1.0
// @description                 Users and tasks with token authentication and owner-only mutations.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/taskhub/taskhub-api/internal/api"
	"github.com/taskhub/taskhub-api/internal/api/handler"
	"github.com/taskhub/taskhub-api/internal/core/auth"
	"github.com/taskhub/taskhub-api/internal/core/ports"
	"github.com/taskhub/taskhub-api/internal/core/service"
	"github.com/taskhub/taskhub-api/internal/infrastructure/config"
	"github.com/taskhub/taskhub-api/internal/infrastructure/db/mongo"
	"github.com/taskhub/taskhub-api/internal/infrastructure/db/redis"
	"github.com/taskhub/taskhub-api/internal/infrastructure/db/sqldb"
	"github.com/taskhub/taskhub-api/internal/infrastructure/queue"
	"github.com/taskhub/taskhub-api/pkg/logger"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskhub-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskhub-api",
	})

	// --- Stores ---
	db, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	checks := map[string]handler.Check{"database": db.PingContext}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
		checks["redis"] = redisCheck(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	var sink ports.AuditSink = queue.NewLogSink(log)
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)
		sink = mongo.NewAuditRepository(mdb)
		checks["mongodb"] = mongoCheck(client)
	} else {
		log.Info().Msg("MONGO_URI not set, auth audit events go to the log")
	}

	// --- Auth core ---
	hasher, err := auth.NewPasswordHasher(auth.HasherConfig{
		Algorithm: cfg.Auth.PasswordHash,
		Argon2: auth.Argon2Params{
			Memory:  cfg.Auth.Argon2MemoryKiB,
			Time:    cfg.Auth.Argon2Time,
			Threads: cfg.Auth.Argon2Threads,
		},
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return err
	}
	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), auth.WithIssuer(cfg.Auth.JWTIssuer))
	if err != nil {
		return err
	}
	policy := auth.NewPolicy()

	// --- Audit workers ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, sink, log)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)
	defer func() {
		stopDispatch()
		dispatcher.Wait()
	}()

	// --- Services ---
	users := sqldb.NewUserRepository(db)
	tasks := sqldb.NewTaskRepository(db)

	authService, err := service.NewAuthService(users, hasher, codec, cfg.Auth.TokenTTL, throttle, dispatcher, log)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Log:           log,
		Version:       version,
		Authenticator: auth.NewAuthenticator(codec),
		Policy:        policy,
		AuthService:   authService,
		UserService:   service.NewUserService(users, policy, log),
		TaskService:   service.NewTaskService(tasks, policy, log),
		HealthChecks:  checks,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("db_driver", cfg.Database.Driver).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func redisCheck(rdb *goredis.Client) handler.Check {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func mongoCheck(client *mongodriver.Client) handler.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
