package cached

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"dataset-registry-service/internal/adapter/cache"
	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/usecase/registry"
)

// DatasetRepository implements registry.Repository with caching support.
// It wraps a backing repository and serves GetDataset cache-aside; all other
// operations are delegated.
type DatasetRepository struct {
	registry.Repository
	cache cache.DatasetCache
	log   *zap.Logger
	group singleflight.Group

	// gens counts writes per dataset key. A read only fills the cache when no
	// write landed between its store read and its Set.
	mu   sync.Mutex
	gens map[string]uint64
}

var _ registry.Repository = (*DatasetRepository)(nil)

// NewDatasetRepository creates a new instance of DatasetRepository. A nil
// cache turns it into a pass-through.
func NewDatasetRepository(repo registry.Repository, c cache.DatasetCache, log *zap.Logger) *DatasetRepository {
	return &DatasetRepository{
		Repository: repo,
		cache:      c,
		log:        log,
		gens:       make(map[string]uint64),
	}
}

func (r *DatasetRepository) generation(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[key]
}

// GetDataset retrieves a dataset using the Cache-Aside pattern.
// The user is looked up in the backing store first, so a cache entry never
// answers for a user the store does not know. Cache errors fall back to the
// backing repository.
func (r *DatasetRepository) GetDataset(ctx context.Context, userName, datasetName string) ([]domain.Record, error) {
	exists, err := r.Repository.UserExists(ctx, userName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	if r.cache != nil {
		records, ok, err := r.cache.Get(ctx, userName, datasetName)
		if err != nil {
			r.log.Warn("cache get error, falling back to store",
				zap.String("username", userName),
				zap.String("dataset", datasetName),
				zap.Error(err),
			)
		} else if ok {
			return records, nil
		}
	}

	key := cache.Key(userName, datasetName)
	gen := r.generation(key)

	// a flight started before a write must not be shared by reads after it
	result, err, _ := r.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		if r.cache != nil {
			if records, ok, err := r.cache.Get(ctx, userName, datasetName); err == nil && ok {
				return records, nil
			}
		}

		records, err := r.Repository.GetDataset(ctx, userName, datasetName)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			r.fill(ctx, key, gen, userName, datasetName, records)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	// callers sharing a flight must not alias each other's slice
	return domain.CloneRecords(result.([]domain.Record)), nil
}

// fill caches records read at generation gen unless a write has since
// bumped it. The lock is held across Set so PutDataset's Delete follows it.
func (r *DatasetRepository) fill(ctx context.Context, key string, gen uint64, userName, datasetName string, records []domain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gens[key] != gen {
		r.log.Debug("skipping cache fill after concurrent upload",
			zap.String("username", userName),
			zap.String("dataset", datasetName),
		)
		return
	}
	if err := r.cache.Set(ctx, userName, datasetName, records); err != nil {
		r.log.Warn("failed to cache dataset",
			zap.String("username", userName),
			zap.String("dataset", datasetName),
			zap.Error(err),
		)
	}
}

// PutDataset stores the dataset and invalidates its cache entry.
func (r *DatasetRepository) PutDataset(ctx context.Context, userName, datasetName string, records []domain.Record) error {
	if err := r.Repository.PutDataset(ctx, userName, datasetName, records); err != nil {
		return err
	}
	if r.cache == nil {
		return nil
	}

	key := cache.Key(userName, datasetName)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[key]++

	if err := r.cache.Delete(ctx, userName, datasetName); err != nil {
		r.log.Warn("failed to invalidate cache after upload",
			zap.String("username", userName),
			zap.String("dataset", datasetName),
			zap.Error(err),
		)
	}
	return nil
}
