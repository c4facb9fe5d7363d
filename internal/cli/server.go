package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lecture-quiz/internal/app"
	"lecture-quiz/internal/config"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/infra/filesystem"
	"lecture-quiz/internal/infra/memory"
	pgstore "lecture-quiz/internal/infra/postgres"
	rediscache "lecture-quiz/internal/infra/redis"
	"lecture-quiz/internal/logger"
	transport "lecture-quiz/internal/transport/http"
)

// quizSource loads single quizzes and lists all of them.
type quizSource interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath *string, defaultPort string) *cobra.Command {
	var portFlag string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, portFlag, cmd.Flags().Changed("port"))
		},
	}
	cmd.Flags().StringVar(&portFlag, "port", defaultPort, "port to listen on")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string, portSet bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := cfg.Server.Port
	if portSet || finalPort == "" {
		finalPort = portFlag
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var (
		loader  quizSource
		results app.ResultStore
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db := openBunDB(cfg.Postgres.URL)
		defer db.Close()

		loader = pgstore.NewQuizLoader(pool)
		results = pgstore.NewResultStore(db)
		log.Info().Msg("serving quizzes from postgres")
	} else {
		loader = filesystem.NewQuizLoader(cfg.Quiz.DataDir, log)
		fileResults, err := filesystem.NewResultStore(cfg.Results.Dir)
		if err != nil {
			return err
		}
		results = fileResults
		log.Info().Str("data_dir", cfg.Quiz.DataDir).Str("results_dir", cfg.Results.Dir).Msg("serving quizzes from files")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	var sessions app.SessionRegistry
	if redisClient != nil {
		quizRepo = rediscache.NewQuizRepository(redisClient, loader, quizTTL, log)
		sessions = rediscache.NewSessionStore(redisClient, redisTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
		sessions = memory.NewSessionStore()
	}

	service := app.NewQuizService(quizRepo, loader, results, sessions, app.WithServiceLogger(log))
	router := transport.NewRouter(
		transport.NewAPI(service, log),
		transport.NewWSHandler(service, log),
		cfg.Server.CORSOrigins,
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	return waitForShutdown(ctx, server, log)
}

func waitForShutdown(ctx context.Context, server *http.Server, log zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
