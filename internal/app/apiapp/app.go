package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/config"
	cloudinaryinfra "github.com/yash0834/lovelane-cloudinary-api/internal/infra/cloudinary"
	s3infra "github.com/yash0834/lovelane-cloudinary-api/internal/infra/s3"
	"github.com/yash0834/lovelane-cloudinary-api/internal/jobs/reconcile"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
	redrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/redis"
	eventsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/events"
	feedsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/feed"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
	mediasvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/media"
	messagesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/messages"
	profilesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/profiles"
	swipesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	reconciler *reconcile.Job
	httpRouter http.Handler

	stopJobs context.CancelFunc
	jobs     sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.CORS.AllowedOrigins)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	}); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}
	store := pgrepo.NewStore(pool, cfg.Postgres.QueryTimeout)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	eventRepo := redrepo.NewEventRepo(redisClient, cfg.Redis.ChannelPrefix)
	notifier := eventsvc.NewNotifier(eventRepo, log.Named("events"))

	profileService := profilesvc.NewService(store.Profiles)
	feedService := feedsvc.NewService(store.Profiles, store.Swipes, feedsvc.Config{
		DefaultLimit: cfg.Feed.DefaultLimit,
		MaxLimit:     cfg.Feed.MaxLimit,
	})
	matchesService := matchessvc.NewService(matchessvc.Dependencies{
		Matches:  store.Matches,
		Swipes:   store.Swipes,
		Notifier: notifier,
		Logger:   log.Named("matches"),
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Swipes:  store.Swipes,
		Matches: matchesService,
		Logger:  log.Named("swipes"),
	})
	messageService := messagesvc.NewService(messagesvc.Dependencies{
		Messages: store.Messages,
		Matches:  store.Matches,
		Notifier: notifier,
	})
	mediaService := mediasvc.NewService(newImageHost(ctx, cfg, log), mediasvc.Config{
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}, log.Named("media"))

	deps := Dependencies{
		ProfileService: profileService,
		FeedService:    feedService,
		SwipeService:   swipeService,
		MatchService:   matchesService,
		MessageService: messageService,
		MediaService:   mediaService,
		Events:         eventRepo,
		RedisPinger:    redisPinger{client: redisClient},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         log,
	}
	if pool != nil {
		deps.PostgresPinger = pool
	}
	RegisterRoutes(r, deps)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		reconciler: reconcile.New(matchesService, cfg.Reconcile.BatchSize, log.Named("reconcile")),
		httpRouter: r,
	}, nil
}

// newImageHost picks the configured provider. A nil host keeps the API up and
// makes uploads fail with 500 until the provider is configured.
func newImageHost(ctx context.Context, cfg config.Config, log *zap.Logger) mediasvc.ImageHost {
	switch cfg.Media.Provider {
	case config.MediaProviderS3:
		client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			log.Warn("s3 init failed, uploads disabled", zap.Error(err))
			return nil
		}
		host := mediasvc.NewS3Host(client, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
		if err := host.EnsureBucket(ctx); err != nil {
			log.Warn("s3 bucket check failed, uploads may fail", zap.Error(err))
		}
		return host
	default:
		cld, err := cloudinaryinfra.NewClient(cfg.Cloudinary.URL)
		if err != nil {
			log.Warn("cloudinary init failed, uploads disabled", zap.Error(err))
			return nil
		}
		return mediasvc.NewCloudinaryHost(cld, cfg.Cloudinary.Folder)
	}
}

// StartJobs launches background sweeps. Call it once, before Run.
func (a *App) StartJobs() {
	if a.postgres == nil || a.cfg.Reconcile.Interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stopJobs = cancel
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		a.reconciler.Loop(ctx, a.cfg.Reconcile.Interval)
	}()
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.stopJobs != nil {
		a.stopJobs()
	}
	a.jobs.Wait()
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
