package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/usecase/registry"
)

// Store implements registry.Repository on top of GORM. It is meant to run
// against an in-memory SQLite database; every mutation runs in a transaction.
type Store struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

var _ registry.Repository = (*Store)(nil)

// NewStore creates a new Store.
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	Name      string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// DatasetSchema represents one dataset row. Records hold the ordered rows as
// a JSON array of objects.
type DatasetSchema struct {
	UserName  string    `gorm:"primaryKey"`
	Name      string    `gorm:"primaryKey"`
	Records   string    `gorm:"type:text;not null"`
	RowCount  int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for the DatasetSchema model.
func (DatasetSchema) TableName() string {
	return "datasets"
}

// Migrate creates or updates the tables used by the store.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&UserSchema{}, &DatasetSchema{}); err != nil {
		return fmt.Errorf("failed to migrate registry tables: %w", err)
	}
	return nil
}

// CreateUser inserts a user. An existing name yields domain.ErrUserAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&UserSchema{Name: name, CreatedAt: time.Now().UTC()})
	if res.Error != nil {
		s.log.Error("failed to create user in db", zap.String("username", name), zap.Error(res.Error))
		return fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserAlreadyExists
	}

	s.log.Debug("user created in db", zap.String("username", name))
	return nil
}

// UserExists reports whether name is registered.
func (s *Store) UserExists(ctx context.Context, name string) (bool, error) {
	return userExists(s.db.WithContext(ctx), name)
}

func userExists(tx *gorm.DB, name string) (bool, error) {
	var count int64
	if err := tx.Model(&UserSchema{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// ListUsers returns all registered names ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.WithContext(ctx).Model(&UserSchema{}).Order("name").Pluck("name", &names).Error; err != nil {
		s.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return names, nil
}

// PutDataset creates or replaces a dataset of an existing user.
func (s *Store) PutDataset(ctx context.Context, userName, datasetName string, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, userName)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}

		row := DatasetSchema{
			UserName:  userName,
			Name:      datasetName,
			Records:   string(payload),
			RowCount:  len(records),
			UpdatedAt: time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_name"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"records", "row_count", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		s.log.Error("failed to store dataset in db",
			zap.String("username", userName),
			zap.String("dataset", datasetName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to store dataset: %w", err)
	}

	s.log.Debug("dataset stored in db",
		zap.String("username", userName),
		zap.String("dataset", datasetName),
		zap.Int("rows", len(records)),
	)
	return nil
}

// ListDatasets returns the dataset names of a user ordered by name.
func (s *Store) ListDatasets(ctx context.Context, userName string) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, userName)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}
		return tx.Model(&DatasetSchema{}).
			Where("user_name = ?", userName).
			Order("name").
			Pluck("name", &names).Error
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// GetDataset returns the records of a dataset in upload order.
func (s *Store) GetDataset(ctx context.Context, userName, datasetName string) ([]domain.Record, error) {
	var row DatasetSchema
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, userName)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}
		return tx.Where("user_name = ? AND name = ?", userName, datasetName).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.DatasetNotFound(userName, datasetName)
		}
		return nil, err
	}

	records := make([]domain.Record, 0, row.RowCount)
	if err := json.Unmarshal([]byte(row.Records), &records); err != nil {
		s.log.Error("failed to decode stored dataset",
			zap.String("username", userName),
			zap.String("dataset", datasetName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return records, nil
}
