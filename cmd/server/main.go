package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/foodiefusion/internal/config"
	"github.com/vanshika/foodiefusion/internal/graphql"
	"github.com/vanshika/foodiefusion/internal/logging"
	"github.com/vanshika/foodiefusion/internal/repository"
	"github.com/vanshika/foodiefusion/internal/richtext"
	"github.com/vanshika/foodiefusion/internal/server"
	"github.com/vanshika/foodiefusion/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	httpClient, err := buildGraphQLClient(logger, cfg.CMS)
	if err != nil {
		logger.Error("failed to create graphql client", "error", err)
		os.Exit(1)
	}
	cache := graphql.NewCachingClient(httpClient, cfg.CMS.CacheTTL)
	defer func() {
		if err := cache.Close(context.Background()); err != nil {
			logger.Warn("closing graphql client failed", "error", err)
		}
	}()

	repo := repository.New(cache)
	contentService := service.NewContentService(repo, service.Options{
		SiteName:       cfg.Site.Name,
		DedupeHeadings: true,
	})

	mode, err := richtext.ParseMode(cfg.CMS.HTMLPolicy)
	if err != nil {
		logger.Error("invalid html policy", "error", err)
		os.Exit(1)
	}
	renderer, err := server.NewRenderer(cfg.Site, richtext.NewPolicy(mode))
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	if cfg.CMS.RevalidationToken == "" {
		logger.Warn("REVALIDATION_SECRET_TOKEN is empty; revalidation requests will be rejected")
	}

	limiter := server.NewRateLimiter(cfg.HTTP.CommentRateLimit, cfg.HTTP.CommentRateBurst)
	defer limiter.Stop()

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.CMSHealthService{Client: httpClient},
		Pages:            server.NewPageHandlers(logger, contentService, renderer, cfg.Site.BaseURL),
		API:              server.NewAPIHandlers(logger, contentService, cache, cfg.CMS.RevalidationToken),
		CommentLimiter:   limiter,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   server.ParseOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildGraphQLClient(logger *slog.Logger, cfg config.CMSConfig) (*graphql.HTTPClient, error) {
	endpoint, err := cfg.RequireEndpoint()
	if err != nil {
		return nil, err
	}
	return graphql.NewHTTPClient(graphql.Options{Endpoint: endpoint}, logger)
}
