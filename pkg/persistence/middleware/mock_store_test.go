package middleware_test

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
// It keeps the pointers it is given, so tests can inspect what was stored.
type MockStore struct {
	data map[domain.SessionKey]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[domain.SessionKey]*domain.Session),
	}
}

func (s *MockStore) Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error {
	s.data[key] = session
	return nil
}

func (s *MockStore) Load(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	session, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *MockStore) Delete(ctx context.Context, key domain.SessionKey) error {
	delete(s.data, key)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]domain.SessionKey, error) {
	keys := make([]domain.SessionKey, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.SessionStore = (*MockStore)(nil)
