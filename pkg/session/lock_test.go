package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error {
	return nil
}

func (m *MockStore) Load(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (m *MockStore) Delete(ctx context.Context, key domain.SessionKey) error {
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]domain.SessionKey, error) {
	return nil, nil
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		key := domain.SessionKey{UserID: fmt.Sprintf("user-%d", i), CampaignID: "c1"}
		_ = mgr.WithLock(ctx, key, func(ctx context.Context) error {
			return mgr.Store().Save(ctx, key, domain.NewSession())
		})
		_, _ = mgr.Load(ctx, key)
		_ = mgr.Delete(ctx, key)
	}

	lockCount := len(mgr.locks)
	t.Logf("Sessions Touched: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
