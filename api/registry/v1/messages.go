package registryv1

import domain "dataset-registry-service/internal/domain/user"

type RegisterUserRequest struct {
	Username string `json:"username"`
}

type RegisterUserResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	RegisteredUsers []string `json:"registered_users"`
}

// UploadDatasetRequest carries the raw file bytes; Filename must end in ".csv".
type UploadDatasetRequest struct {
	Username    string `json:"username"`
	DatasetName string `json:"dataset_name"`
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
}

type UploadDatasetResponse struct {
	Message       string `json:"message"`
	Username      string `json:"username"`
	DatasetName   string `json:"dataset_name"`
	Filename      string `json:"filename"`
	RowsProcessed int    `json:"rows_processed"`
}

type ListDatasetsRequest struct {
	Username string `json:"username"`
}

type ListDatasetsResponse struct {
	Username          string   `json:"username"`
	AvailableDatasets []string `json:"available_datasets"`
}

type GetDatasetRequest struct {
	Username    string `json:"username"`
	DatasetName string `json:"dataset_name"`
}

type GetDatasetResponse struct {
	Username    string          `json:"username"`
	DatasetName string          `json:"dataset_name"`
	Records     []domain.Record `json:"records"`
}
