package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefinitionLoader fetches wizard configuration from a backing store.
type DefinitionLoader interface {
	LoadWizard(ctx context.Context, wizardID string) (domain.Wizard, error)
}

// DefinitionRepository caches wizard definitions in Redis as JSON under
// wizard:def:{wizardID} and falls back to the loader on cache miss.
type DefinitionRepository struct {
	client *redis.Client
	loader DefinitionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDefinitionRepository(client *redis.Client, loader DefinitionLoader, ttl time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DefinitionRepository) GetWizard(ctx context.Context, wizardID string) (domain.Wizard, error) {
	key := r.key(wizardID)

	if wz, ok := r.fromCache(ctx, key); ok {
		return wz, nil
	}

	result, err, _ := r.sf.Do(wizardID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if wz, ok := r.fromCache(ctx, key); ok {
			return wz, nil
		}

		wz, err := r.loader.LoadWizard(ctx, wizardID)
		if err != nil {
			return domain.Wizard{}, err
		}

		if raw, err := json.Marshal(wz); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return wz, nil
	})
	if err != nil {
		return domain.Wizard{}, err
	}
	return result.(domain.Wizard), nil
}

func (r *DefinitionRepository) fromCache(ctx context.Context, key string) (domain.Wizard, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.Wizard{}, false
	}
	var wz domain.Wizard
	if err := json.Unmarshal(raw, &wz); err != nil {
		// Corrupt cache entry; drop it and reload from the backing store.
		_ = r.client.Del(ctx, key).Err()
		return domain.Wizard{}, false
	}
	return wz, true
}

func (r *DefinitionRepository) key(wizardID string) string {
	return "wizard:def:" + wizardID
}

func (r *DefinitionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
