package registry

import "context"

// Usecase defines the interface for registry business logic operations.
type Usecase interface {
	RegisterUser(ctx context.Context, in RegisterUserRequest) (*RegisterUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	UploadDataset(ctx context.Context, in UploadDatasetRequest) (*UploadDatasetResponse, error)
	ListDatasets(ctx context.Context, in ListDatasetsRequest) (*ListDatasetsResponse, error)
	GetDataset(ctx context.Context, in GetDatasetRequest) (*GetDatasetResponse, error)
}
