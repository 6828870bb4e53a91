package redis

import (
	"testing"
	"time"

	"assessment-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	def := domain.Wizard{ID: "ai-readiness", Sections: []domain.Section{{Key: "s0"}}}

	_ = store.GetOrCreate("ai-readiness:v1", def)
	if !mr.Exists("wizard:session:ai-readiness:v1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if got, _ := mr.Get("wizard:session:ai-readiness:v1"); got != "ai-readiness" {
		t.Fatalf("liveness key should record the wizard ID, got %q", got)
	}

	store.Delete("ai-readiness:v1")
	if mr.Exists("wizard:session:ai-readiness:v1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreReusesLocalSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	def := domain.Wizard{ID: "ai-readiness", Sections: []domain.Section{{Key: "s0"}}}

	a := store.GetOrCreate("ai-readiness:v1", def)
	b := store.GetOrCreate("ai-readiness:v1", def)
	if a != b {
		t.Fatal("same key must return the same session")
	}
	got, ok := store.Get("ai-readiness:v1")
	if !ok || got != a {
		t.Fatal("Get should return the live session")
	}
}
