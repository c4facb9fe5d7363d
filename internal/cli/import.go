package cli

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lecture-quiz/internal/config"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/infra/filesystem"
	pgstore "lecture-quiz/internal/infra/postgres"
	rediscache "lecture-quiz/internal/infra/redis"
	"lecture-quiz/internal/logger"
)

type quizUpserter interface {
	Upsert(ctx context.Context, quiz domain.Quiz) error
}

type importOptions struct {
	shuffle    bool
	seed       int64
	invalidate func(ctx context.Context, quizID string) error
}

// NewImportCmd loads quiz files into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import [data-dir]",
		Short: "Import quiz files into Postgres",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			dir := cfg.Quiz.DataDir
			if len(args) == 1 {
				dir = args[0]
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = time.Now().UnixNano()
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()
				cache := rediscache.NewQuizRepository(client, nil, config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute), log)
				opts.invalidate = cache.Invalidate
			}

			paths, err := filesystem.QuizFiles(dir)
			if err != nil {
				return err
			}
			n, err := importQuizzes(ctx, paths, pgstore.NewQuizLoader(pool), opts, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d quizzes\n", n, len(paths))
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.shuffle, "shuffle", false, "shuffle multiple choice options")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "shuffle seed (random when unset)")
	return cmd
}

// importQuizzes upserts every valid quiz file and returns how many were
// stored. Invalid files are skipped with a warning.
func importQuizzes(ctx context.Context, paths []string, store quizUpserter, opts importOptions, log zerolog.Logger) (int, error) {
	var imported atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			quiz, err := filesystem.ReadQuizFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping unreadable quiz file")
				return nil
			}
			if issues := domain.ValidateQuiz(quiz); !domain.Valid(issues) {
				log.Warn().Str("quiz_id", quiz.ID).Int("issues", len(issues)).Msg("skipping invalid quiz")
				return nil
			}
			if opts.shuffle {
				quiz = domain.ShuffleQuestionOptions(quiz, rand.New(rand.NewSource(opts.seed+int64(i))))
			}
			if err := store.Upsert(ctx, quiz); err != nil {
				return fmt.Errorf("import %s: %w", quiz.ID, err)
			}
			if opts.invalidate != nil {
				if err := opts.invalidate(ctx, quiz.ID); err != nil {
					log.Warn().Err(err).Str("quiz_id", quiz.ID).Msg("cache invalidation failed")
				}
			}
			imported.Add(1)
			log.Debug().Str("quiz_id", quiz.ID).Msg("quiz imported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(imported.Load()), err
	}
	return int(imported.Load()), nil
}
