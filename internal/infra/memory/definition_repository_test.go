package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"assessment-service/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	wz    domain.Wizard
	err   error
}

func (l *countingLoader) LoadWizard(_ context.Context, wizardID string) (domain.Wizard, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return domain.Wizard{}, l.err
	}
	if wizardID != l.wz.ID {
		return domain.Wizard{}, domain.ErrWizardNotFound
	}
	return l.wz, nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestDefinitionRepositoryCachesWithinTTL(t *testing.T) {
	loader := &countingLoader{wz: domain.Wizard{ID: "ai-readiness", Title: "AI Readiness"}}
	repo := NewDefinitionRepository(loader, time.Minute)

	for i := 0; i < 5; i++ {
		wz, err := repo.GetWizard(context.Background(), "ai-readiness")
		if err != nil {
			t.Fatalf("GetWizard: %v", err)
		}
		if wz.Title != "AI Readiness" {
			t.Fatalf("got title %q", wz.Title)
		}
	}
	if got := loader.count(); got != 1 {
		t.Fatalf("expected a single backing load, got %d", got)
	}
}

func TestDefinitionRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{wz: domain.Wizard{ID: "ai-readiness"}}
	repo := NewDefinitionRepository(loader, time.Minute)

	base := time.Now()
	repo.clock = func() time.Time { return base }
	if _, err := repo.GetWizard(context.Background(), "ai-readiness"); err != nil {
		t.Fatalf("GetWizard: %v", err)
	}

	// Past TTL plus the maximum jitter.
	repo.clock = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := repo.GetWizard(context.Background(), "ai-readiness"); err != nil {
		t.Fatalf("GetWizard after expiry: %v", err)
	}
	if got := loader.count(); got != 2 {
		t.Fatalf("expected reload after expiry, got %d loads", got)
	}
}

func TestDefinitionRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{wz: domain.Wizard{ID: "ai-readiness"}}
	repo := NewDefinitionRepository(loader, time.Minute)

	if _, err := repo.GetWizard(context.Background(), "missing"); err != domain.ErrWizardNotFound {
		t.Fatalf("expected ErrWizardNotFound, got %v", err)
	}
	if _, err := repo.GetWizard(context.Background(), "missing"); err != domain.ErrWizardNotFound {
		t.Fatalf("expected ErrWizardNotFound, got %v", err)
	}
	if got := loader.count(); got != 2 {
		t.Fatalf("errors must not be cached, got %d loads", got)
	}
}

func TestDefinitionRepositoryCollapsesConcurrentLoads(t *testing.T) {
	loader := &countingLoader{wz: domain.Wizard{ID: "ai-readiness"}}
	repo := NewDefinitionRepository(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.GetWizard(context.Background(), "ai-readiness"); err != nil {
				t.Errorf("GetWizard: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := loader.count(); got > 2 {
		t.Fatalf("singleflight should collapse concurrent loads, got %d", got)
	}
}

func TestStaticDefinitionLoader(t *testing.T) {
	loader := NewStaticDefinitionLoader(map[string]domain.Wizard{
		"ai-readiness": {ID: "ai-readiness"},
	})
	if _, err := loader.LoadWizard(context.Background(), "ai-readiness"); err != nil {
		t.Fatalf("LoadWizard: %v", err)
	}
	if _, err := loader.LoadWizard(context.Background(), "nope"); err != domain.ErrWizardNotFound {
		t.Fatalf("expected ErrWizardNotFound, got %v", err)
	}
}
