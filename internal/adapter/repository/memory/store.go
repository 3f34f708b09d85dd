package memory

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/usecase/registry"
)

// Store is the in-memory registry of users and their datasets.
// A single mutex guards every read and mutation, so each operation is atomic
// with respect to the others.
type Store struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	log   *zap.Logger
}

var _ registry.Repository = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore(log *zap.Logger) *Store {
	return &Store{
		users: make(map[string]*domain.User),
		log:   log,
	}
}

// CreateUser registers name with an empty dataset collection.
func (s *Store) CreateUser(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[name]; ok {
		return domain.ErrUserAlreadyExists
	}
	s.users[name] = domain.New(name)

	s.log.Debug("user created in memory store", zap.String("username", name), zap.Int("users", len(s.users)))
	return nil
}

// UserExists reports whether name is registered.
func (s *Store) UserExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[name]
	return ok, nil
}

// ListUsers returns all registered names, sorted.
func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// PutDataset creates or replaces the dataset of an existing user.
func (s *Store) PutDataset(_ context.Context, userName, datasetName string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userName]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PutDataset(datasetName, records)

	s.log.Debug("dataset stored in memory store",
		zap.String("username", userName),
		zap.String("dataset", datasetName),
		zap.Int("rows", len(records)),
	)
	return nil
}

// ListDatasets returns the dataset names of a user, sorted.
func (s *Store) ListDatasets(_ context.Context, userName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userName]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.DatasetNames(), nil
}

// GetDataset returns a copy of the named dataset.
func (s *Store) GetDataset(_ context.Context, userName, datasetName string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userName]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	records, ok := u.Dataset(datasetName)
	if !ok {
		return nil, domain.DatasetNotFound(userName, datasetName)
	}
	return records, nil
}
