package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/gymgo/gymgo/modules/api"
	"github.com/gymgo/gymgo/pkg/config"
	"github.com/gymgo/gymgo/pkg/email"
	"github.com/gymgo/gymgo/pkg/httpserver"
	"github.com/gymgo/gymgo/pkg/logger"
	"github.com/gymgo/gymgo/pkg/pg"
	"github.com/gymgo/gymgo/pkg/redis"
	"github.com/gymgo/gymgo/pkg/storage"
	"github.com/gymgo/gymgo/svc/media"
	"github.com/gymgo/gymgo/svc/member"
	"github.com/gymgo/gymgo/svc/notification"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
	"github.com/gymgo/gymgo/svc/usage"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_SERVICE" envDefault:"gymgo"`

	// local writes media under MediaDir; s3 uses the S3_* variables.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	MediaDir      string `env:"MEDIA_DIR" envDefault:"./tmp/media"`
	MediaBaseURL  string `env:"MEDIA_BASE_URL" envDefault:"http://localhost:8080/media"`

	// postmark sends real email; dev writes .html files to EMAIL_DEV_DIR.
	EmailDriver string `env:"EMAIL_DRIVER" envDefault:"dev"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real deployments set variables directly.
	_ = config.LoadEnv()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, appCfg.Service))
	logger.SetAsDefault(log)

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()

	orgs := organization.NewPgStore(pool)
	memberStore := member.NewPgStore(pool)
	mediaStore := media.NewPgStore(pool)

	counters := quota.NewRegistry()
	usage.RegisterPgCounters(counters, pool)

	engine, err := quota.NewEngine(ctx,
		quota.DefaultSource(),
		organization.NewPlanSource(orgs),
		counters,
		usage.NewRedisStore(redisClient),
		quota.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("quota engine: %w", err)
	}

	backend, err := newStorageBackend(ctx, appCfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	sender, err := newEmailSender(appCfg)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}

	notifications := notification.NewService(engine, sender,
		notification.NewLogWhatsAppSender(log), notification.WithLogger(log))

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool), redis.Healthcheck(redisClient)))
	router.Mount("/api/v1", api.Router(api.Deps{
		Orgs:          orgs,
		Members:       member.NewService(memberStore, engine, log),
		Media:         media.NewService(mediaStore, backend, engine, log),
		Notifications: notifications,
		Quota:         engine,
		Log:           log,
	}))

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting server", slog.String("addr", httpCfg.Addr))
	return srv.Run(ctx, router)
}

func newStorageBackend(ctx context.Context, cfg appConfig) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		var s3Cfg storage.S3Config
		config.MustLoad(&s3Cfg)
		return storage.NewS3Storage(ctx, s3Cfg)
	case "local":
		return storage.NewLocalStorage(cfg.MediaDir, cfg.MediaBaseURL)
	default:
		return nil, errors.New("unknown STORAGE_DRIVER: " + cfg.StorageDriver)
	}
}

func newEmailSender(cfg appConfig) (email.EmailSender, error) {
	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	switch cfg.EmailDriver {
	case "postmark":
		return email.NewPostmarkClient(emailCfg)
	case "dev":
		return email.NewDevSender(emailCfg.DevOutputDir)
	default:
		return nil, errors.New("unknown EMAIL_DRIVER: " + cfg.EmailDriver)
	}
}
