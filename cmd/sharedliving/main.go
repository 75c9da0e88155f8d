// @title Shared Living API
// @version 1.0
// @description Household invitations and membership management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sharedliving/config"
	_ "sharedliving/docs"
	"sharedliving/internal/adapters/auth"
	"sharedliving/internal/adapters/email"
	"sharedliving/internal/adapters/queue"
	httpdelivery "sharedliving/internal/delivery/http"
	"sharedliving/internal/delivery/http/controllers"
	"sharedliving/internal/domain"
	"sharedliving/internal/repository/memory"
	"sharedliving/internal/repository/postgres"
	"sharedliving/internal/services"
)

// store is satisfied by both the postgres and the in-memory repositories.
type store interface {
	domain.TxRunner
	Repositories() domain.Repositories
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	repos := st.Repositories()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	var notifier domain.NotificationGateway = services.NewNotificationGateway(mailer, email.NewTemplateRenderer(), logger)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		go queue.NewWorker(client, cfg.RedisNotifyKey, notifier, logger).Run(ctx)
		notifier = queue.NewRedisNotifier(client, cfg.RedisNotifyKey, logger)
		logger.Info("invitation notifications queued through redis", "key", cfg.RedisNotifyKey)
	}

	hasher := auth.NewBcryptHasher(0)
	authorizer := services.NewMembershipAuthorizer(repos, st, logger, cfg.RequestTimeout)
	invitations := services.NewInvitationService(repos, st, auth.NewInviteTokenGenerator(), authorizer, notifier, logger,
		services.InvitationConfig{
			BaseURL:               cfg.AppBaseURL,
			DefaultExpirationDays: cfg.InvitationDefaultDays,
			Timeout:               cfg.RequestTimeout,
		})
	authSvc := services.NewAuthService(repos.Users, hasher, auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry)

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Auth:           controllers.NewAuthController(logger, authSvc),
		Invitations:    controllers.NewInvitationController(logger, invitations),
		Members:        controllers.NewMembershipController(logger, authorizer),
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	if cfg.ExpirySweepInterval > 0 {
		go runExpirySweeper(ctx, invitations, cfg.ExpirySweepInterval, logger)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore returns the configured repositories. DATABASE_URL=memory selects the in-process
// store, which starts empty and loses its data on exit.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, func(), error) {
	if cfg.DBUrl == "memory" {
		if cfg.IsProduction() {
			return nil, nil, errors.New("the memory store is not allowed in production")
		}
		logger.Warn("using in-memory store; data is not persisted")
		return memory.NewStore(), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := postgres.Open(pingCtx, cfg.DBUrl)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return postgres.NewStore(db), func() { closeDB(db, logger) }, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("close db", "error", err)
	}
}
