package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/configs"
	"github.com/Rakhulsr/go-shoppingmall/app/middlewares"
	"github.com/Rakhulsr/go-shoppingmall/app/models/migrations"
	"github.com/Rakhulsr/go-shoppingmall/app/routes"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/renderer"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Serve runs the web server until ctx is cancelled or SIGINT/SIGTERM arrives.
func Serve(ctx context.Context, env configs.ENV, logger *zap.Logger) error {
	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return err
	}
	if err := migrations.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	keys, err := env.SessionKeys()
	if err != nil {
		return err
	}
	store := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)

	var (
		redisClient *redis.Client
		registry    sessions.SessionRegistry
	)
	if env.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     env.RedisAddr,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		registry = sessions.NewRedisSessionRegistry(redisClient, env.RememberMeTTL)
		logger.Info("Using Redis session registry", zap.String("addr", env.RedisAddr))
	} else {
		registry = sessions.NewMemorySessionRegistry(env.RememberMeTTL)
		logger.Warn("REDIS_ADDR not set: sessions are tracked in memory and login rate limiting is off")
	}

	handler := routes.NewRouter(routes.Dependencies{
		DB:             db,
		Render:         renderer.New("templates", !env.IsProduction()),
		Logger:         logger,
		Store:          store,
		Registry:       registry,
		Redis:          redisClient,
		OAuthProviders: oauthProviders(env, logger),
		CSRFKey:        keys.CSRFKey,
		SecureCookies:  env.IsProduction(),
		RateLimit: middlewares.RateLimitConfig{
			RequestsPerWindow: env.LoginRateLimit,
			Window:            env.LoginRateWindow,
			KeyPrefix:         "ratelimit:login",
		},
		RememberTTL: env.RememberMeTTL,
	})

	server := &http.Server{
		Addr:              ":" + env.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr), zap.String("env", env.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exiting")
	return nil
}

func oauthProviders(env configs.ENV, logger *zap.Logger) []*services.OAuthProvider {
	clients := map[string]configs.OAuthClient{
		services.ProviderGoogle: env.Google,
		services.ProviderGitHub: env.GitHub,
		services.ProviderKakao:  env.Kakao,
	}

	var providers []*services.OAuthProvider
	for name, client := range clients {
		if client.ClientID == "" {
			continue
		}
		p, err := services.NewOAuthProvider(name, services.OAuthCredentials{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
		}, env.AppURL)
		if err != nil {
			logger.Warn("Skipping OAuth provider", zap.String("provider", name), zap.Error(err))
			continue
		}
		providers = append(providers, p)
	}
	return providers
}
