package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/foodiefusion/internal/config"
	"github.com/vanshika/foodiefusion/internal/graphql"
	"github.com/vanshika/foodiefusion/internal/logging"
	"github.com/vanshika/foodiefusion/internal/repository"
	"github.com/vanshika/foodiefusion/internal/service"
	"github.com/vanshika/foodiefusion/internal/sitemap"
)

func main() {
	var (
		output  = flag.String("out", "", "file to write sitemap.xml to (default stdout)")
		baseURL = flag.String("base-url", "", "absolute site URL (overrides SITE_BASE_URL)")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall time allowed for crawling the CMS")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.Logging).With("component", "sitemap")

	endpoint, err := cfg.CMS.RequireEndpoint()
	if err != nil {
		logger.Error("cms endpoint missing", "error", err)
		os.Exit(1)
	}
	client, err := graphql.NewHTTPClient(graphql.Options{Endpoint: endpoint}, logger)
	if err != nil {
		logger.Error("failed to create graphql client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	svc := service.NewContentService(repository.New(client), service.Options{SiteName: cfg.Site.Name})

	start := time.Now()
	paths, err := svc.SitemapPaths(ctx)
	if err != nil {
		logger.Error("crawl failed", "error", err, "kind", graphql.Kind(err))
		os.Exit(1)
	}

	site := cfg.Site.BaseURL
	if *baseURL != "" {
		site = *baseURL
	}
	set := sitemap.Build(site, paths)

	if err := write(*output, set); err != nil {
		logger.Error("failed to write sitemap", "error", err, "path", *output)
		os.Exit(1)
	}

	logger.Info("sitemap written",
		"urls", len(set.URLs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func write(path string, set sitemap.URLSet) error {
	if path == "" {
		return sitemap.Write(os.Stdout, set)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sitemap.Write(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
