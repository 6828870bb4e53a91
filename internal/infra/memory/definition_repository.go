package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefinitionLoader fetches wizard configuration from a backing store.
type DefinitionLoader interface {
	LoadWizard(ctx context.Context, wizardID string) (domain.Wizard, error)
}

// DefinitionRepository caches wizard definitions with TTL to avoid repeated
// backing-store hits.
type DefinitionRepository struct {
	loader DefinitionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedWizard
}

type cachedWizard struct {
	wizard    domain.Wizard
	expiresAt time.Time
}

func NewDefinitionRepository(loader DefinitionLoader, ttl time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedWizard),
	}
}

func (r *DefinitionRepository) GetWizard(ctx context.Context, wizardID string) (domain.Wizard, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[wizardID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.wizard, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(wizardID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[wizardID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.wizard, nil
		}
		r.mu.RUnlock()

		wz, err := r.loader.LoadWizard(ctx, wizardID)
		if err != nil {
			return domain.Wizard{}, err
		}

		r.mu.Lock()
		r.cache[wizardID] = cachedWizard{
			wizard:    wz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return wz, nil
	})
	if err != nil {
		return domain.Wizard{}, err
	}
	return result.(domain.Wizard), nil
}

// StaticDefinitionLoader serves wizards from an in-memory map (useful for
// tests and keyless demo runs).
type StaticDefinitionLoader struct {
	wizards map[string]domain.Wizard
}

func NewStaticDefinitionLoader(wizards map[string]domain.Wizard) *StaticDefinitionLoader {
	return &StaticDefinitionLoader{wizards: wizards}
}

func (l *StaticDefinitionLoader) LoadWizard(_ context.Context, wizardID string) (domain.Wizard, error) {
	if wz, ok := l.wizards[wizardID]; ok {
		return wz, nil
	}
	return domain.Wizard{}, domain.ErrWizardNotFound
}

func (r *DefinitionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
