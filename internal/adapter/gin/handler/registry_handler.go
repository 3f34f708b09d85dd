package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataset-registry-service/internal/usecase/registry"
	apperrors "dataset-registry-service/pkg/errors"
	"dataset-registry-service/pkg/logger"
)

// WelcomeMessage is returned by the root route.
const WelcomeMessage = "Welcome to the Simple User Registration"

// RegistryHandler handles HTTP requests for users and their datasets
type RegistryHandler struct {
	uc             registry.Usecase
	log            *zap.Logger
	maxUploadBytes int64
}

// NewRegistryHandler creates a new RegistryHandler instance. maxUploadBytes
// of zero or less disables the upload size check.
func NewRegistryHandler(uc registry.Usecase, maxUploadBytes int64, log *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		uc:             uc,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterUserRequest represents the HTTP request body for registering a user
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// RegisterUserResponse represents the HTTP response after registration
type RegisterUserResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	RegisteredUsers []string `json:"registered_users"`
}

// UploadDatasetResponse represents the HTTP response after an upload
type UploadDatasetResponse struct {
	Message       string `json:"message"`
	Username      string `json:"username"`
	DatasetName   string `json:"dataset_name"`
	Filename      string `json:"filename"`
	RowsProcessed int    `json:"rows_processed"`
}

// ListDatasetsResponse represents the HTTP response for listing datasets
type ListDatasetsResponse struct {
	Username          string   `json:"username"`
	AvailableDatasets []string `json:"available_datasets"`
}

// ErrorResponse represents an error response. Detail repeats Message for
// clients that read the "detail" field.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func newErrorResponse(kind, message string) ErrorResponse {
	return ErrorResponse{Error: kind, Message: message, Detail: message}
}

// Welcome handles GET /
func (h *RegistryHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

// RegisterUser handles POST /users/register
func (h *RegistryHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid register request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse("validation_error", "username is required"))
		return
	}

	ctx := logger.WithUsername(c.Request.Context(), req.Username)
	resp, err := h.uc.RegisterUser(ctx, registry.RegisterUserRequest{Username: req.Username})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterUserResponse{
		Message:  resp.Message,
		Username: resp.Username,
	})
}

// ListUsers handles GET /users/all
func (h *RegistryHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context(), registry.ListUsersRequest{})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{RegisteredUsers: resp.Users})
}

// UploadDataset handles POST /users/:username/data/:dataset_name
// The multipart form must carry the CSV in the "file" field.
func (h *RegistryHandler) UploadDataset(c *gin.Context) {
	username := c.Param("username")
	datasetName := c.Param("dataset_name")
	ctx := logger.WithUsername(c.Request.Context(), username)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.WithContext(ctx, h.log).Warn("Upload without file", zap.Error(err))
		c.JSON(http.StatusBadRequest, newErrorResponse("missing_file", "A file must be uploaded in the 'file' form field"))
		return
	}

	// Oversized parts are not read; the use case rejects them once the user is known.
	var content []byte
	size := fileHeader.Size
	if h.maxUploadBytes <= 0 || size <= h.maxUploadBytes {
		content, err = readUpload(fileHeader, h.maxUploadBytes)
		if err != nil {
			logger.WithContext(ctx, h.log).Error("Failed to read upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, newErrorResponse("internal_error", "Failed to read uploaded file"))
			return
		}
		size = max(size, int64(len(content)))
	}

	resp, err := h.uc.UploadDataset(ctx, registry.UploadDatasetRequest{
		Username:    username,
		DatasetName: datasetName,
		Filename:    fileHeader.Filename,
		Content:     content,
		Size:        size,
		MaxBytes:    h.maxUploadBytes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadDatasetResponse{
		Message:       resp.Message,
		Username:      resp.Username,
		DatasetName:   resp.DatasetName,
		Filename:      resp.Filename,
		RowsProcessed: resp.RowsProcessed,
	})
}

// ListDatasets handles GET /users/:username/datasets
func (h *RegistryHandler) ListDatasets(c *gin.Context) {
	username := c.Param("username")
	ctx := logger.WithUsername(c.Request.Context(), username)

	resp, err := h.uc.ListDatasets(ctx, registry.ListDatasetsRequest{Username: username})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListDatasetsResponse{
		Username:          resp.Username,
		AvailableDatasets: resp.Datasets,
	})
}

// GetDataset handles GET /users/:username/data/:dataset_name
// The body is the bare array of records.
func (h *RegistryHandler) GetDataset(c *gin.Context) {
	username := c.Param("username")
	ctx := logger.WithUsername(c.Request.Context(), username)

	resp, err := h.uc.GetDataset(ctx, registry.GetDatasetRequest{
		Username:    username,
		DatasetName: c.Param("dataset_name"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp.Records)
}

// readUpload reads at most limit bytes of an uploaded file; limit <= 0 reads
// everything.
func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}

	// One byte past the limit is enough for the use case to see the overflow.
	return io.ReadAll(io.LimitReader(f, limit+1))
}

// handleError converts usecase errors to HTTP responses
func (h *RegistryHandler) handleError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	if code < http.StatusInternalServerError {
		c.JSON(code, newErrorResponse(apperrors.Kind(err), err.Error()))
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Error("request failed", zap.Error(err))
	var ie *apperrors.InternalError
	if errors.As(err, &ie) {
		c.JSON(code, newErrorResponse(apperrors.Kind(err), err.Error()))
		return
	}
	c.JSON(code, newErrorResponse("internal_error", "An internal error occurred"))
}
