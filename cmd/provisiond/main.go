package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrmiscellaneous91/dsa-automation/internal/async"
	"github.com/mrmiscellaneous91/dsa-automation/internal/common"
	"github.com/mrmiscellaneous91/dsa-automation/internal/dedup"
	"github.com/mrmiscellaneous91/dsa-automation/internal/export"
	"github.com/mrmiscellaneous91/dsa-automation/internal/extract"
	"github.com/mrmiscellaneous91/dsa-automation/internal/llm"
	"github.com/mrmiscellaneous91/dsa-automation/internal/llm/anthropic"
	"github.com/mrmiscellaneous91/dsa-automation/internal/llm/gemini"
	"github.com/mrmiscellaneous91/dsa-automation/internal/pipeline"
	"github.com/mrmiscellaneous91/dsa-automation/internal/repository"
	"github.com/mrmiscellaneous91/dsa-automation/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := extract.LoadRules(cfg.Rules.Path)
	if err != nil {
		logger.Error("failed to load rules", "path", cfg.Rules.Path, "error", err)
		os.Exit(1)
	}

	// Persistence is optional; without DB_URL parsed requests are only logged.
	var repo repository.RequestRepository
	var exporter *export.Service
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		repo = repository.NewRequestRepository(pool, logger)
		exporter = export.NewService(repo, logger)
	} else {
		logger.Warn("DB_URL not set, running without persistence")
	}

	filter := buildFilter(ctx, cfg, logger)
	extractor := buildExtractor(cfg, logger)

	parser := pipeline.NewParser(logger, rules, extractor)
	svc := pipeline.NewService(parser, filter, repo, logger)

	queue := async.NewEmailQueue(svc, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	handler := server.NewHandler(svc, queue, repo, exporter, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("provisiond listening", "addr", cfg.Server.HTTPAddr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown interrupted", "error", err)
	}
}

// buildFilter prefers the shared Redis set, falling back to the in-process
// one when REDIS_URL is unset.
func buildFilter(ctx context.Context, cfg *common.Config, logger *slog.Logger) dedup.Filter {
	if cfg.Redis.URL == "" {
		logger.Warn("REDIS_URL not set, using in-process dedup filter")
		return dedup.NewMemoryFilter()
	}
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		os.Exit(1)
	}
	return dedup.NewRedisFilter(rdb, cfg.Redis.DedupTTL)
}

// buildExtractor assembles the extraction chain from whichever API keys are
// present. With no keys the pipeline runs deterministic patterns only.
func buildExtractor(cfg *common.Config, logger *slog.Logger) llm.FieldExtractor {
	var primary, secondary llm.FieldExtractor
	if cfg.Anthropic.APIKey != "" {
		primary = anthropic.NewClient(anthropic.Config{
			APIKey:    cfg.Anthropic.APIKey,
			BaseURL:   cfg.Anthropic.BaseURL,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Timeout:   cfg.Anthropic.Timeout,
		}, logger)
	}
	if cfg.Gemini.APIKey != "" {
		secondary = gemini.NewClient(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout,
		}, logger)
	}
	if primary == nil && secondary == nil {
		logger.Warn("no LLM API keys set, running deterministic extraction only")
		return nil
	}
	return llm.NewChain(primary, secondary, logger)
}
