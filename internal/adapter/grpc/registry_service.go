package grpc

import (
	"context"

	"go.uber.org/zap"

	registryv1 "dataset-registry-service/api/registry/v1"
	"dataset-registry-service/internal/usecase/registry"
	"dataset-registry-service/pkg/logger"
)

// RegistryServiceServer implements the gRPC registry service
type RegistryServiceServer struct {
	registryv1.UnimplementedRegistryServiceServer
	uc             registry.Usecase
	log            *zap.Logger
	maxUploadBytes int64
}

var _ registryv1.RegistryServiceServer = (*RegistryServiceServer)(nil)

// NewRegistryServiceServer creates a new gRPC registry service server
func NewRegistryServiceServer(uc registry.Usecase, maxUploadBytes int64, log *zap.Logger) *RegistryServiceServer {
	return &RegistryServiceServer{uc: uc, log: log, maxUploadBytes: maxUploadBytes}
}

// RegisterUser handles gRPC RegisterUser request
func (s *RegistryServiceServer) RegisterUser(ctx context.Context, req *registryv1.RegisterUserRequest) (*registryv1.RegisterUserResponse, error) {
	ctx = logger.WithUsername(ctx, req.Username)
	resp, err := s.uc.RegisterUser(ctx, registry.RegisterUserRequest{Username: req.Username})
	if err != nil {
		return nil, err
	}

	return &registryv1.RegisterUserResponse{
		Message:  resp.Message,
		Username: resp.Username,
	}, nil
}

// ListUsers handles gRPC ListUsers request
func (s *RegistryServiceServer) ListUsers(ctx context.Context, _ *registryv1.ListUsersRequest) (*registryv1.ListUsersResponse, error) {
	resp, err := s.uc.ListUsers(ctx, registry.ListUsersRequest{})
	if err != nil {
		return nil, err
	}

	return &registryv1.ListUsersResponse{RegisteredUsers: resp.Users}, nil
}

// UploadDataset handles gRPC UploadDataset request
func (s *RegistryServiceServer) UploadDataset(ctx context.Context, req *registryv1.UploadDatasetRequest) (*registryv1.UploadDatasetResponse, error) {
	ctx = logger.WithUsername(ctx, req.Username)
	resp, err := s.uc.UploadDataset(ctx, registry.UploadDatasetRequest{
		Username:    req.Username,
		DatasetName: req.DatasetName,
		Filename:    req.Filename,
		Content:     req.Content,
		Size:        int64(len(req.Content)),
		MaxBytes:    s.maxUploadBytes,
	})
	if err != nil {
		return nil, err
	}

	return &registryv1.UploadDatasetResponse{
		Message:       resp.Message,
		Username:      resp.Username,
		DatasetName:   resp.DatasetName,
		Filename:      resp.Filename,
		RowsProcessed: resp.RowsProcessed,
	}, nil
}

// ListDatasets handles gRPC ListDatasets request
func (s *RegistryServiceServer) ListDatasets(ctx context.Context, req *registryv1.ListDatasetsRequest) (*registryv1.ListDatasetsResponse, error) {
	ctx = logger.WithUsername(ctx, req.Username)
	resp, err := s.uc.ListDatasets(ctx, registry.ListDatasetsRequest{Username: req.Username})
	if err != nil {
		return nil, err
	}

	return &registryv1.ListDatasetsResponse{
		Username:          resp.Username,
		AvailableDatasets: resp.Datasets,
	}, nil
}

// GetDataset handles gRPC GetDataset request
func (s *RegistryServiceServer) GetDataset(ctx context.Context, req *registryv1.GetDatasetRequest) (*registryv1.GetDatasetResponse, error) {
	ctx = logger.WithUsername(ctx, req.Username)
	resp, err := s.uc.GetDataset(ctx, registry.GetDatasetRequest{
		Username:    req.Username,
		DatasetName: req.DatasetName,
	})
	if err != nil {
		return nil, err
	}

	return &registryv1.GetDatasetResponse{
		Username:    resp.Username,
		DatasetName: resp.DatasetName,
		Records:     resp.Records,
	}, nil
}
