package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/billcut/sophie/internal/api/router"
	appconfig "github.com/billcut/sophie/internal/config"
	"github.com/billcut/sophie/internal/conversation"
	"github.com/billcut/sophie/internal/knowledge"
	"github.com/billcut/sophie/internal/observability/metrics"
	"github.com/billcut/sophie/internal/secrets"
	"github.com/billcut/sophie/internal/webchat"
	"github.com/billcut/sophie/pkg/logging"
)

func main() {
	// Local development convenience; hosted deployments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting sophie chat service",
		"env", cfg.Env,
		"port", cfg.Port,
		"model", cfg.GeminiModelID,
	)

	ctx := context.Background()

	// The credential is resolved exactly once at startup. Without it the
	// service cannot operate, so a miss is fatal.
	cred, err := resolveCredential(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to resolve API credential", "error", err)
		os.Exit(1)
	}

	tmpl, err := knowledge.LoadFile(cfg.KnowledgePath)
	if err != nil {
		logger.Error("failed to load knowledge template", "error", err)
		os.Exit(1)
	}
	logger.Info("knowledge template loaded",
		"company", tmpl.Company,
		"facts", len(tmpl.Facts),
		"version", tmpl.Version,
	)

	geminiClient, err := conversation.NewGeminiClient(ctx, cred, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer geminiClient.Close()

	chatMetrics := metrics.NewChatMetrics(prometheus.DefaultRegisterer)
	generator := conversation.NewGenerator(geminiClient, logger, chatMetrics)

	transcript := newTranscriptStore(cfg, logger)

	registry := webchat.NewRegistry(func(sessionID string) *conversation.Session {
		return conversation.NewSession(sessionID, tmpl, generator, logger, chatMetrics,
			conversation.WithGreeting(cfg.Greeting))
	}, chatMetrics)
	chatHandler := webchat.NewHandler(registry, transcript, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No write timeout: a generation call has no client-side deadline,
		// and the reply is written only once it resolves.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// resolveCredential builds the provider chain per configuration and resolves
// the Gemini API key. Priority: managed secrets store, then environment.
func resolveCredential(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (secrets.Credential, error) {
	var providers []secrets.Provider

	if cfg.SecretsProvider == "aws" || cfg.SecretsProvider == "auto" {
		awsProvider, err := secrets.LoadAWSProvider(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		if err != nil {
			if cfg.SecretsProvider == "aws" {
				return "", err
			}
			logger.Warn("managed secrets provider unavailable, falling back to environment", "error", err)
		} else {
			providers = append(providers, awsProvider)
		}
	}
	if cfg.SecretsProvider != "aws" {
		providers = append(providers, secrets.EnvProvider{})
	}

	resolver := secrets.NewResolver(logger, providers...)
	return resolver.Resolve(ctx, cfg.CredentialSecretID)
}

// newTranscriptStore picks the Redis mirror when configured, otherwise the
// single-instance in-memory store.
func newTranscriptStore(cfg *appconfig.Config, logger *logging.Logger) conversation.TranscriptStore {
	if cfg.RedisAddr == "" {
		return conversation.NewMemoryTranscriptStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	logger.Info("using redis transcript mirror", "addr", cfg.RedisAddr, "ttl", cfg.TranscriptTTL)
	return conversation.NewRedisTranscriptStore(redis.NewClient(opts), cfg.TranscriptTTL)
}
