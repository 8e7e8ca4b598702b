// Package app wires the stores, desk and transport into a running bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eliseohh/helpdeskbot/internal/album"
	"github.com/eliseohh/helpdeskbot/internal/bot"
	"github.com/eliseohh/helpdeskbot/internal/config"
	"github.com/eliseohh/helpdeskbot/internal/desk"
	"github.com/eliseohh/helpdeskbot/internal/health"
	"github.com/eliseohh/helpdeskbot/internal/ratelimit"
	"github.com/eliseohh/helpdeskbot/internal/relay"
	"github.com/eliseohh/helpdeskbot/internal/render"
	"github.com/eliseohh/helpdeskbot/internal/store"
)

const shutdownTimeout = 15 * time.Second

// Run starts long polling and blocks until ctx is cancelled. Buffered media
// groups are flushed before it returns.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 1. Storage
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	questionStore := store.NewQuestionStore(db)

	// 2. Cooldowns
	cooldowns, closeCooldowns, err := newCooldownStore(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeCooldowns()

	// 3. Transport and desk
	api, err := bot.NewAPI(cfg.BotToken, logger)
	if err != nil {
		return fmt.Errorf("connect to bot api: %w", err)
	}
	r := relay.New(bot.NewMessenger(api), cfg.WorkChatID, logger)
	d := desk.New(questionStore,
		ratelimit.New(cooldowns, cfg.Cooldown()),
		r,
		render.Renderer{PerPage: cfg.PerPage, Location: loc},
		logger)
	agg := album.New(cfg.MediaGroupWindow(), d.HandleSubmission)
	b := bot.New(api, d, agg, bot.Config{WorkChatID: cfg.WorkChatID}, logger)

	// 4. Ops endpoint
	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = health.NewServer(cfg.HTTPAddr, health.NewRouter(questionStore, logger, cfg.HTTPAllowedOrigins))
		go func() {
			logger.Info("health endpoint listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health endpoint", zap.Error(err))
			}
		}()
	}

	go b.Start()
	<-ctx.Done()

	logger.Info("shutting down", zap.Int("pending_groups", agg.Pending()))
	b.Stop()
	agg.Close()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("health endpoint shutdown", zap.Error(err))
		}
	}
	logger.Info("bot stopped")
	return nil
}

// newCooldownStore picks Redis when an address is configured and falls back
// to process memory otherwise.
func newCooldownStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (ratelimit.Store, func(), error) {
	if cfg.Addr == "" {
		logger.Info("cooldowns kept in memory")
		return ratelimit.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("cooldowns kept in redis", zap.String("addr", cfg.Addr))
	return ratelimit.NewRedisStore(rdb, ""), func() { rdb.Close() }, nil
}
