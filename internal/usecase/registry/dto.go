package registry

import domain "dataset-registry-service/internal/domain/user"

// RegisterUserRequest represents the request payload for registering a user.
type RegisterUserRequest struct {
	Username string `validate:"required"`
}

// RegisterUserResponse represents the response payload after registering a user.
type RegisterUserResponse struct {
	Message  string
	Username string
}

// ListUsersRequest represents the request payload for listing registered users.
type ListUsersRequest struct{}

// ListUsersResponse holds registered user names sorted ascending.
type ListUsersResponse struct {
	Users []string
}

// UploadDatasetRequest represents an uploaded CSV file to be stored under
// (Username, DatasetName). Size is the upload's declared length; transports
// that refuse to buffer an oversized file leave Content empty. MaxBytes of
// zero disables the size limit.
type UploadDatasetRequest struct {
	Username    string `validate:"required"`
	DatasetName string `validate:"required"`
	Filename    string
	Content     []byte
	Size        int64
	MaxBytes    int64
}

// UploadDatasetResponse represents the response payload after an upload.
type UploadDatasetResponse struct {
	Message       string
	Username      string
	DatasetName   string
	Filename      string
	RowsProcessed int
}

// ListDatasetsRequest represents the request payload for listing a user's datasets.
type ListDatasetsRequest struct {
	Username string `validate:"required"`
}

// ListDatasetsResponse holds the user's dataset names sorted ascending.
type ListDatasetsResponse struct {
	Username string
	Datasets []string
}

// GetDatasetRequest represents the request payload for fetching a dataset.
type GetDatasetRequest struct {
	Username    string `validate:"required"`
	DatasetName string `validate:"required"`
}

// GetDatasetResponse carries the dataset rows in upload order.
type GetDatasetResponse struct {
	Username    string
	DatasetName string
	Records     []domain.Record
}
