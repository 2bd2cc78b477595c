package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
	"lms_backend/internals/features/assessments/repository"
	"lms_backend/internals/features/assessments/repository/cache"
	"lms_backend/internals/features/assessments/service"
	routes "lms_backend/internals/route"
)

// NewServeCmd builds the CLI subcommand to start the HTTP server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type stores struct {
	assessments service.AssessmentStore
	sessions    service.SessionStore
	sweeper     *cron.Cron
	redis       *redis.Client
}

func (s *stores) close() {
	if s.sweeper != nil {
		<-s.sweeper.Stop().Done()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// buildStores: Redis (catalog cache + start marker) kalau REDIS_ADDR diisi,
// selain itu langsung ke Postgres + sweeper cron untuk attempt_sessions.
func buildStores(ctx context.Context, cfg configs.Config, db *gorm.DB) (*stores, error) {
	repo := repository.NewAssessmentRepository(db)
	out := &stores{assessments: repo}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		ttl := configs.TTLDuration(cfg.Assessment.CatalogCacheTTL, 10*time.Minute)
		out.redis = client
		out.assessments = cache.NewCatalogCache(client, repo, ttl)
		out.sessions = cache.NewSessionStore(client)
		log.Printf("[INFO] Redis aktif (%s), catalog ttl=%s", cfg.Redis.Addr, ttl)
		return out, nil
	}

	sessions := repository.NewSessionRepository(db)
	sweeper, err := repository.StartSessionSweeper(cfg.Assessment.SessionSweepCron, sessions)
	if err != nil {
		return nil, fmt.Errorf("session sweeper: %w", err)
	}
	out.sessions = sessions
	out.sweeper = sweeper
	return out, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := configs.Load(configPath)
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.Server.Port = portFlag
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer database.Close(db)
	database.TunePool(db)
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	database.WarmUp(db)

	st, err := buildStores(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer st.close()

	svc := service.NewAssessmentService(
		st.assessments,
		repository.NewAttemptRepository(db),
		st.sessions,
		service.Options{
			EnforceTimeLimit: cfg.Assessment.EnforceTimeLimit,
			TimeLimitGrace:   configs.TTLDuration(cfg.Assessment.TimeLimitGrace, 30*time.Second),
			SessionTTL:       configs.TTLDuration(cfg.Assessment.AttemptSessionTTL, 6*time.Hour),
		},
	)

	app := routes.NewApp(cfg)
	routes.SetupRoutes(app, routes.Deps{
		DB:          db,
		Assessments: svc,
		JWTSecret:   cfg.Auth.JWTSecret,
		SubmitLimit: cfg.Assessment.SubmitRateLimit,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Server.Port)
		errCh <- app.Listen("0.0.0.0:" + cfg.Server.Port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
