package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cppla/fotos/assetcache"
	"github.com/cppla/fotos/config"
	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/routes"
	"github.com/cppla/fotos/scheduler"
	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/themes"
	"github.com/cppla/fotos/utils"
)

func newServeCommand(cc *commandContext) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the photo inventory web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cc.configValue()
			if port != "" {
				cfg.AppPort = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		return err
	}
	logger := utils.Logger
	defer func() { _ = logger.Sync() }()

	// One server per lock file: two servers would hold two diverging collections
	lock := flock.New(cfg.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fotos server is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	photos := store.New()

	feed := notify.NewFeed(notify.DefaultLifetime)
	hub := notify.NewHub(logger)
	go hub.Run(ctx)
	sinks := notify.Fanout{feed, hub}
	if utils.MailConfigured(cfg) {
		sinks = append(sinks, &notify.Mailer{To: cfg.NotifyEmailTo, Send: utils.NewMailSender(cfg)})
		logger.Info("exhibition end emails enabled", zap.String("to", cfg.NotifyEmailTo))
	}

	sched := scheduler.New(photos, sinks,
		scheduler.WithLocation(cfg.Location()),
		scheduler.WithLogger(logger),
	)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	list, err := themes.Load(cfg.ThemesFile)
	if err != nil {
		logger.Warn("themes file unusable, using built-in themes", zap.String("path", cfg.ThemesFile), zap.Error(err))
		list = themes.Defaults()
	}
	themeState := themes.NewState(list, cfg.DefaultTheme)

	backend, closeBackend := assetBackend(ctx, cfg, logger)
	defer closeBackend()
	assets := assetcache.New(cfg.CacheName, backend, assetcache.FileFetcher{Dir: cfg.StaticDir}, logger)
	if err := assets.Install(ctx, cfg.CacheAssets); err != nil {
		// the UI still loads from disk, just without the cache
		logger.Warn("asset cache install failed", zap.String("cache", assets.Name()), zap.Error(err))
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config:   cfg,
		Photos:   photos,
		Themes:   themeState,
		Notifier: sinks,
		Feed:     feed,
		Hub:      hub,
		Assets:   assets,
		Logger:   logger,
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r, sched.Stop, cancel); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	return nil
}

// assetBackend prefers Redis and falls back to process memory.
func assetBackend(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (assetcache.Backend, func()) {
	if !cfg.RedisEnabled() {
		return assetcache.NewMemoryBackend(), func() {}
	}
	client, err := utils.NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, asset cache kept in memory", zap.Error(err))
		return assetcache.NewMemoryBackend(), func() {}
	}
	logger.Info("asset cache backed by redis", zap.String("host", cfg.RedisHost))
	return assetcache.NewRedisBackend(client), func() { closeRedis(client, logger) }
}

func closeRedis(client *redis.Client, logger *zap.Logger) {
	if err := client.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}
}
