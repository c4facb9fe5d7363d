package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"lecture-quiz/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (quiz files, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches quiz definitions in Redis and falls back to a loader on cache miss.
// Definitions are stored as JSON: SET quiz:{quizID}:definition {json} EX ttl
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	log    zerolog.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration, log zerolog.Logger) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log.With().Str("component", "redis_quiz_cache").Logger(),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, err
		}
		if err := r.client.Set(ctx, r.definitionKey(quizID), data, r.ttlWithJitter()).Err(); err != nil {
			// best-effort: serve the loaded quiz even if caching failed
			r.log.Warn().Err(err).Str("quiz_id", quizID).Msg("cache write failed")
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate removes a cached definition, e.g. after an import.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.definitionKey(quizID)).Err()
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.definitionKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("quiz_id", quizID).Msg("cache read failed")
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		r.log.Warn().Err(err).Str("quiz_id", quizID).Msg("discarding corrupt cache entry")
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) definitionKey(quizID string) string {
	return "quiz:" + quizID + ":definition"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
