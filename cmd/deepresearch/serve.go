package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	"github.com/kitbuilder587/deepresearch-bot/internal/config"
	"github.com/kitbuilder587/deepresearch-bot/internal/metrics"
	"github.com/kitbuilder587/deepresearch-bot/internal/ratelimit"
	"github.com/kitbuilder587/deepresearch-bot/internal/server"
	"github.com/kitbuilder587/deepresearch-bot/internal/telegram"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the Telegram bot when configured)",
		Long: `Serve starts the research HTTP API on the configured address.
If TELEGRAM_BOT_TOKEN is set, the Telegram bot front end is started
alongside it. Both share one pipeline, report cache and metrics.`,
		RunE: runServeCmd,
	}

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	m := metrics.New()

	pipeline, err := buildPipeline(cfg, logger, m)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportCache := memory.NewWithContext(ctx)
	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	})

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		DefaultDepth: cfg.Research.DefaultDepth,
		CacheTTL:     cfg.Server.CacheTTL,
	}, server.Deps{
		Pipeline: pipeline,
		Limiter:  limiter,
		Cache:    reportCache,
		Metrics:  m,
		Logger:   logger,
	})

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if cfg.Telegram.Token != "" {
		bot, err := telegram.New(telegram.BotConfig{
			Token:             cfg.Telegram.Token,
			Debug:             cfg.Telegram.Debug,
			RequestsPerMinute: cfg.Server.RequestsPerMinute,
			DefaultDepth:      cfg.Research.DefaultDepth,
			CacheTTL:          cfg.Server.CacheTTL,
		}, pipeline, reportCache, logger, m)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}

		g.Go(func() error {
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
