package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"study-session-service/internal/domain"
)

// ContentLoader fetches quiz content for a phase from a backing store.
type ContentLoader interface {
	LoadContent(ctx context.Context, phase domain.Phase) (domain.QuizContent, error)
}

// ContentRepository caches per-phase quiz content with TTL to avoid repeated
// backing-store hits. Concurrent misses for the same phase collapse into one
// load via singleflight.
type ContentRepository struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Phase]cachedContent
}

type cachedContent struct {
	content   domain.QuizContent
	expiresAt time.Time
}

func NewContentRepository(loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Phase]cachedContent),
	}
}

func (r *ContentRepository) FetchQuestions(ctx context.Context, phase domain.Phase) (domain.QuizContent, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[phase]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.content, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(string(phase), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[phase]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.content, nil
		}
		r.mu.RUnlock()

		content, err := r.loader.LoadContent(ctx, phase)
		if err != nil {
			return domain.QuizContent{}, err
		}

		r.mu.Lock()
		r.cache[phase] = cachedContent{
			content:   content,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return domain.QuizContent{}, err
	}
	return result.(domain.QuizContent), nil
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticContentLoader is a loader backed by an in-memory map, used for demos
// and tests and as the primary source when no database is configured.
type StaticContentLoader struct {
	content map[domain.Phase]domain.QuizContent
}

func NewStaticContentLoader(content map[domain.Phase]domain.QuizContent) *StaticContentLoader {
	return &StaticContentLoader{content: content}
}

func (l *StaticContentLoader) LoadContent(_ context.Context, phase domain.Phase) (domain.QuizContent, error) {
	if content, ok := l.content[phase]; ok {
		return content, nil
	}
	return domain.QuizContent{}, domain.ErrContentNotFound
}
