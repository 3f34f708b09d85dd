package user

import (
	"fmt"

	apperrors "dataset-registry-service/pkg/errors"
)

// Registry errors. Use errors.Is to test for them; messages of dataset
// lookups carry the dataset and user names.
var (
	ErrUserAlreadyExists = apperrors.NewAlreadyExistsError("user", "Username already exists")
	ErrUserNotFound      = apperrors.NewNotFoundError("user", "User not found")
	ErrDatasetNotFound   = apperrors.NewNotFoundError("dataset", "Dataset not found")
	ErrInvalidFileType   = apperrors.NewValidationError("file", "Invalid file type. Please upload a .csv file.")
	ErrFileTooLarge      = apperrors.NewTooLargeError("file", "Uploaded file is too large")
	ErrProcessingFailed  = apperrors.NewInternalError("Failed to process CSV file", nil)
)

// DatasetNotFound returns the not-found error for a dataset of an existing user.
func DatasetNotFound(userName, datasetName string) error {
	return apperrors.NewNotFoundError("dataset",
		fmt.Sprintf("Dataset '%s' not found for user '%s'", datasetName, userName))
}

// ProcessingFailed wraps a decode or parse failure of uploaded content.
func ProcessingFailed(err error) error {
	return apperrors.NewInternalError(ErrProcessingFailed.Message, err)
}
