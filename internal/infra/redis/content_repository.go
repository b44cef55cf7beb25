package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"study-session-service/internal/domain"
)

// ContentLoader fetches quiz content from a backing store (e.g. postgres).
type ContentLoader interface {
	LoadContent(ctx context.Context, phase domain.Phase) (domain.QuizContent, error)
}

// ContentRepository caches the full quiz document per phase in Redis:
// SET study:quiz:{phase} {json} with TTL. Cache misses collapse into one
// loader call via singleflight.
type ContentRepository struct {
	client *redis.Client
	loader ContentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewContentRepository(client *redis.Client, loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ContentRepository) FetchQuestions(ctx context.Context, phase domain.Phase) (domain.QuizContent, error) {
	key := r.key(phase)

	if content, ok := r.cached(ctx, key); ok {
		return content, nil
	}

	result, err, _ := r.sf.Do(string(phase), func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if content, ok := r.cached(ctx, key); ok {
			return content, nil
		}

		content, err := r.loader.LoadContent(ctx, phase)
		if err != nil {
			return domain.QuizContent{}, err
		}

		if payload, err := json.Marshal(content); err == nil {
			// best-effort: a failed cache write must not fail the fetch
			_ = r.client.Set(ctx, key, payload, r.ttlWithJitter()).Err()
		}
		return content, nil
	})
	if err != nil {
		return domain.QuizContent{}, err
	}
	return result.(domain.QuizContent), nil
}

func (r *ContentRepository) cached(ctx context.Context, key string) (domain.QuizContent, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuizContent{}, false
	}
	var content domain.QuizContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return domain.QuizContent{}, false
	}
	return content, true
}

func (r *ContentRepository) key(phase domain.Phase) string {
	return "study:quiz:" + string(phase)
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
