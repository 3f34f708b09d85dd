package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/metrics"
	"dataset-registry-service/pkg/csvparser"
	apperrors "dataset-registry-service/pkg/errors"
	"dataset-registry-service/pkg/logger"
	"dataset-registry-service/pkg/security"
)

// Repository defines the data access operations of the registry.
// Every dataset operation fails with domain.ErrUserNotFound when the user is
// not registered; that check comes before any dataset lookup.
type Repository interface {
	// CreateUser registers a user together with an empty dataset collection.
	CreateUser(ctx context.Context, name string) error
	UserExists(ctx context.Context, name string) (bool, error)
	ListUsers(ctx context.Context) ([]string, error)
	// PutDataset creates or fully replaces a dataset.
	PutDataset(ctx context.Context, userName, datasetName string, records []domain.Record) error
	ListDatasets(ctx context.Context, userName string) ([]string, error)
	GetDataset(ctx context.Context, userName, datasetName string) ([]domain.Record, error)
}

var _ Usecase = (*Service)(nil)

// Service implements the business logic of the registry.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var (
		messages []string
		field    string
	)
	for _, e := range validationErrors {
		if field == "" {
			field = e.Field()
		}
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(field, "validation failed: "+strings.Join(messages, ", "))
}

// RegisterUser registers a new user name. A name that is already taken fails
// with domain.ErrUserAlreadyExists.
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserRequest) (*RegisterUserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("registering user", zap.String("username", in.Username))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if err := s.repo.CreateUser(ctx, in.Username); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			log.Warn("username already exists", zap.String("username", in.Username))
		} else {
			log.Error("failed to register user", zap.String("username", in.Username), zap.Error(err))
		}
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	return &RegisterUserResponse{
		Message:  "User registered successfully",
		Username: in.Username,
	}, nil
}

// ListUsers returns all registered user names sorted ascending.
func (s *Service) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	names, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := append([]string{}, names...)
	sort.Strings(users)
	return &ListUsersResponse{Users: users}, nil
}

// UploadDataset parses an uploaded CSV file and stores it under the user,
// replacing any dataset of the same name. The user is checked first, then the
// size limit and the file extension, then the content.
func (s *Service) UploadDataset(ctx context.Context, in UploadDatasetRequest) (*UploadDatasetResponse, error) {
	log := logger.WithContext(ctx, s.log).With(
		zap.String("username", in.Username),
		zap.String("dataset", in.DatasetName),
		zap.String("filename", security.SanitizeFilename(in.Filename)),
	)
	log.Info("uploading dataset", zap.Int("bytes", len(in.Content)))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		metrics.DatasetUploadsTotal.WithLabelValues("invalid_request").Inc()
		return nil, formatValidationError(err)
	}

	exists, err := s.repo.UserExists(ctx, in.Username)
	if err != nil {
		log.Error("failed to check user", zap.Error(err))
		return nil, err
	}
	if !exists {
		log.Warn("upload for unknown user")
		metrics.DatasetUploadsTotal.WithLabelValues("user_not_found").Inc()
		return nil, domain.ErrUserNotFound
	}

	size := max(in.Size, int64(len(in.Content)))
	if err := security.ValidateUploadSize(size, in.MaxBytes); err != nil {
		log.Warn("rejected oversized upload", zap.Int64("bytes", size), zap.Int64("limit", in.MaxBytes))
		metrics.DatasetUploadsTotal.WithLabelValues("too_large").Inc()
		return nil, domain.ErrFileTooLarge
	}

	if !security.IsCSVFilename(in.Filename) {
		log.Warn("rejected non-csv upload")
		metrics.DatasetUploadsTotal.WithLabelValues("invalid_file_type").Inc()
		return nil, domain.ErrInvalidFileType
	}

	records, err := csvparser.ParseBytes(in.Content)
	if err != nil {
		log.Error("failed to parse csv", zap.Error(err))
		metrics.DatasetUploadsTotal.WithLabelValues("parse_error").Inc()
		return nil, domain.ProcessingFailed(err)
	}

	if err := s.repo.PutDataset(ctx, in.Username, in.DatasetName, records); err != nil {
		log.Error("failed to store dataset", zap.Error(err))
		return nil, err
	}

	metrics.DatasetUploadsTotal.WithLabelValues("success").Inc()
	metrics.RowsIngestedTotal.Add(float64(len(records)))
	log.Info("dataset stored", zap.Int("rows", len(records)))

	return &UploadDatasetResponse{
		Message:       fmt.Sprintf("Dataset '%s' uploaded successfully for user '%s'", in.DatasetName, in.Username),
		Username:      in.Username,
		DatasetName:   in.DatasetName,
		Filename:      in.Filename,
		RowsProcessed: len(records),
	}, nil
}

// ListDatasets returns the dataset names of a user sorted ascending. A user
// without uploads gets an empty list.
func (s *Service) ListDatasets(ctx context.Context, in ListDatasetsRequest) (*ListDatasetsResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	names, err := s.repo.ListDatasets(ctx, in.Username)
	if err != nil {
		log.Warn("failed to list datasets", zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}

	datasets := append([]string{}, names...)
	sort.Strings(datasets)
	return &ListDatasetsResponse{Username: in.Username, Datasets: datasets}, nil
}

// GetDataset returns the rows of a dataset in upload order.
func (s *Service) GetDataset(ctx context.Context, in GetDatasetRequest) (*GetDatasetResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	records, err := s.repo.GetDataset(ctx, in.Username, in.DatasetName)
	if err != nil {
		log.Warn("failed to get dataset",
			zap.String("username", in.Username),
			zap.String("dataset", in.DatasetName),
			zap.Error(err),
		)
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}

	return &GetDatasetResponse{
		Username:    in.Username,
		DatasetName: in.DatasetName,
		Records:     records,
	}, nil
}
