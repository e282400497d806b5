package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/ai"
	"github.com/harentsoaR/healthchain-api/internal/cache"
	"github.com/harentsoaR/healthchain-api/internal/config"
	"github.com/harentsoaR/healthchain-api/internal/handlers"
	"github.com/harentsoaR/healthchain-api/internal/services"
	"github.com/harentsoaR/healthchain-api/internal/session"
	"github.com/harentsoaR/healthchain-api/internal/store"
	"go.uber.org/zap"
)

// app owns everything the server needs and releases it on close.
type app struct {
	router   *gin.Engine
	store    store.Store
	redis    *cache.Redis
	notifier *services.NotificationService
	logger   *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		logger.Warn("could not ensure indexes", zap.Error(err))
	}

	a := &app{store: st, logger: logger}

	var sessionCache cache.SessionCache
	if cfg.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, sessions will not be cached", zap.Error(err))
		} else {
			a.redis = r
			sessionCache = r
			logger.Info("session cache enabled")
		}
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			a.close()
			return nil, err
		}
		logger.Warn("JWT_SECRET is not set, using a random secret; sessions will not survive a restart")
	}
	sessions := session.NewManager(st, sessionCache, session.Options{
		Secret:   []byte(secret),
		TTL:      cfg.SessionTTL,
		CacheTTL: cfg.SessionCacheTTL,
		Secure:   cfg.CookieSecure,
	}, logger)

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, AI features will fail")
	}
	aiService := ai.NewService(
		ai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.AITimeout),
		cfg.GeminiFastModel,
		cfg.GeminiProModel,
	)

	var mailer services.Mailer
	if cfg.EmailEnabled() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom)
	} else {
		logger.Warn("EMAIL_USER/EMAIL_PASS not set, emails will only be logged")
	}
	a.notifier = services.NewNotificationService(mailer, logger)

	h := handlers.NewHandler(st, sessions, aiService, a.notifier, logger, handlers.Options{
		ReportsDir: cfg.ReportsDir,
		BcryptCost: cfg.BcryptCost,
	})
	a.router = handlers.NewRouter(h, sessions, handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})
	return a, nil
}

// openStore connects the configured document store.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}
	st, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
	return st, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
}
