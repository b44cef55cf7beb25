package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"study-session-service/internal/app"
	"study-session-service/internal/config"
	"study-session-service/internal/domain"
	"study-session-service/internal/infra/memory"
	pgstore "study-session-service/internal/infra/postgres"
	redisinfra "study-session-service/internal/infra/redis"
	transport "study-session-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the study session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Demo participants let the flow be exercised without a database.
	memParticipants := memory.NewParticipantStore()
	memParticipants.Seed(demoParticipant(demoUser))

	var loader memory.ContentLoader = memory.NewStaticContentLoader(memory.DefaultPhaseContent())
	if pool != nil {
		loader = pgstore.NewContentLoader(pool)
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	var contentRepo app.ContentRepository
	if redisClient != nil {
		contentRepo = redisinfra.NewContentRepository(redisClient, loader, contentTTL)
	} else {
		contentRepo = memory.NewContentRepository(loader, contentTTL)
	}

	var recorder app.ResultRecorder = memory.NewAttemptRecorder(memParticipants)
	var participants app.ParticipantStore = memParticipants
	if pool != nil {
		recorder = pgstore.NewAttemptRecorder(pool)
		participants = pgstore.NewParticipantStore(pool)
	}

	var registry app.SessionRegistry = memory.NewSessionRegistry()
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	}

	service := app.NewSessionService(contentRepo, memory.NewFixedQuestionProvider(), recorder, participants, registry)
	router := transport.NewRouter(service)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting study session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// demoParticipant has signed consent so the pre-assessment can be taken
// immediately against the in-memory stack.
func demoParticipant(userID string) domain.ParticipantProgress {
	return domain.ParticipantProgress{
		UserID:           userID,
		ConsentCompleted: true,
	}
}
