package cache

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"lms_backend/internals/features/assessments/model"
)

// AssessmentSource is the store behind the cache (gorm repository in production).
type AssessmentSource interface {
	GetByID(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) (*model.AssessmentModel, error)
	Create(ctx context.Context, kind model.Kind, m *model.AssessmentModel) error
	DeleteByID(ctx context.Context, kind model.Kind, id uuid.UUID) error
}

// CatalogCache menyimpan definisi assessment (termasuk kunci jawaban) di Redis:
//
//	SET assessment:{kind}:{id} <json> EX ttl(+jitter)
//
// Miss dilayani sekali per key lewat singleflight. Cache tidak pernah dikirim
// mentah ke learner; sanitasi tetap di service.
type CatalogCache struct {
	client *redis.Client
	source AssessmentSource
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

const loadTimeout = 10 * time.Second

func NewCatalogCache(client *redis.Client, source AssessmentSource, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) GetByID(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) (*model.AssessmentModel, error) {
	key := c.key(kind, id)

	if m, ok := c.read(ctx, key); ok {
		return checkLesson(m, lessonID)
	}

	// flight per (key, lesson): hasil source bergantung pada lessonID.
	// Loader dipakai bersama, jadi tidak ikut cancel milik caller pertama.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()

	v, err, _ := c.sf.Do(key+"|"+lessonID.String(), func() (interface{}, error) {
		if m, ok := c.read(loadCtx, key); ok {
			return m, nil
		}
		m, err := c.source.GetByID(loadCtx, kind, lessonID, id)
		if err != nil {
			return nil, err
		}
		c.write(loadCtx, key, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return checkLesson(v.(*model.AssessmentModel), lessonID)
}

func (c *CatalogCache) Create(ctx context.Context, kind model.Kind, m *model.AssessmentModel) error {
	return c.source.Create(ctx, kind, m)
}

func (c *CatalogCache) DeleteByID(ctx context.Context, kind model.Kind, id uuid.UUID) error {
	if err := c.source.DeleteByID(ctx, kind, id); err != nil {
		return err
	}
	c.Invalidate(ctx, kind, id)
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context, kind model.Kind, id uuid.UUID) {
	if err := c.client.Del(ctx, c.key(kind, id)).Err(); err != nil {
		log.Printf("[CatalogCache] WARN invalidate %s: %v", c.key(kind, id), err)
	}
}

func (c *CatalogCache) key(kind model.Kind, id uuid.UUID) string {
	return "assessment:" + kind.Name + ":" + id.String()
}

func (c *CatalogCache) read(ctx context.Context, key string) (*model.AssessmentModel, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CatalogCache] WARN get %s: %v", key, err)
		}
		return nil, false
	}
	var m model.AssessmentModel
	if err := sonic.Unmarshal(raw, &m); err != nil {
		log.Printf("[CatalogCache] WARN decode %s: %v", key, err)
		return nil, false
	}
	return &m, true
}

func (c *CatalogCache) write(ctx context.Context, key string, m *model.AssessmentModel) {
	raw, err := sonic.Marshal(m)
	if err != nil {
		log.Printf("[CatalogCache] WARN encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err(); err != nil {
		log.Printf("[CatalogCache] WARN set %s: %v", key, err)
	}
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// Key cache hanya id; lesson dicek ulang supaya id dari lesson lain tetap 404.
func checkLesson(m *model.AssessmentModel, lessonID uuid.UUID) (*model.AssessmentModel, error) {
	if m.AssessmentLessonID != lessonID {
		return nil, model.ErrAssessmentNotFound
	}
	cp := *m
	return &cp, nil
}
