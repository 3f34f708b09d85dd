package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "dataset-registry-service/internal/domain/user"
	apperrors "dataset-registry-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockRepository) UserExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) PutDataset(ctx context.Context, userName, datasetName string, records []domain.Record) error {
	args := m.Called(ctx, userName, datasetName, records)
	return args.Error(0)
}

func (m *MockRepository) ListDatasets(ctx context.Context, userName string) ([]string, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) GetDataset(ctx context.Context, userName, datasetName string) ([]domain.Record, error) {
	args := m.Called(ctx, userName, datasetName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	svc := New(mockRepo, zaptest.NewLogger(t))
	return svc, mockRepo
}

// ==================== REGISTER USER TESTS ====================

func TestRegisterUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("CreateUser", ctx, "testuser1").Return(nil)

	resp, err := svc.RegisterUser(ctx, RegisterUserRequest{Username: "testuser1"})

	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "testuser1", resp.Username)
	mockRepo.AssertExpectations(t)
}

func TestRegisterUser_AlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("CreateUser", ctx, "testuser2").Return(domain.ErrUserAlreadyExists)

	resp, err := svc.RegisterUser(ctx, RegisterUserRequest{Username: "testuser2"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.Equal(t, "Username already exists", err.Error())
}

func TestRegisterUser_ValidationError_UsernameRequired(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	resp, err := svc.RegisterUser(context.Background(), RegisterUserRequest{})

	assert.Nil(t, resp)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Username", ve.Field)
	assert.Contains(t, err.Error(), "Username is required")
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Sorted(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListUsers", ctx).Return([]string{"userB", "userA"}, nil)

	resp, err := svc.ListUsers(ctx, ListUsersRequest{})

	require.NoError(t, err)
	assert.Equal(t, []string{"userA", "userB"}, resp.Users)
}

func TestListUsers_Empty(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListUsers", ctx).Return([]string{}, nil)

	resp, err := svc.ListUsers(ctx, ListUsersRequest{})

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListUsers", ctx).Return(nil, errors.New("db down"))

	resp, err := svc.ListUsers(ctx, ListUsersRequest{})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "db down")
}

// ==================== UPLOAD DATASET TESTS ====================

func TestUploadDataset_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	expected := []domain.Record{
		{{Name: "ID", Value: "1"}, {Name: "Name", Value: "Alice"}},
		{{Name: "ID", Value: "2"}, {Name: "Name", Value: "Bob"}},
	}
	mockRepo.On("UserExists", ctx, "csvuser").Return(true, nil)
	mockRepo.On("PutDataset", ctx, "csvuser", "report", expected).Return(nil)

	resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
		Username:    "csvuser",
		DatasetName: "report",
		Filename:    "data.csv",
		Content:     []byte("ID,Name\n1,Alice\n2,Bob"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Dataset 'report' uploaded successfully for user 'csvuser'", resp.Message)
	assert.Equal(t, "csvuser", resp.Username)
	assert.Equal(t, "report", resp.DatasetName)
	assert.Equal(t, "data.csv", resp.Filename)
	assert.Equal(t, 2, resp.RowsProcessed)
	mockRepo.AssertExpectations(t)
}

func TestUploadDataset_EmptyAndHeaderOnly(t *testing.T) {
	for _, content := range []string{"", "Header1,Header2"} {
		svc, mockRepo := setupTestService(t)
		ctx := context.Background()

		mockRepo.On("UserExists", ctx, "u").Return(true, nil)
		mockRepo.On("PutDataset", ctx, "u", "d", []domain.Record{}).Return(nil)

		resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
			Username: "u", DatasetName: "d", Filename: "x.csv", Content: []byte(content),
		})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.RowsProcessed)
		mockRepo.AssertExpectations(t)
	}
}

func TestUploadDataset_UserNotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("UserExists", ctx, "nonexistentuser").Return(false, nil)

	// user check comes before the extension check
	resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
		Username: "nonexistentuser", DatasetName: "mydataset", Filename: "test.txt", Content: []byte("x"),
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	mockRepo.AssertNotCalled(t, "PutDataset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadDataset_InvalidFileType(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("UserExists", ctx, "uploaduser").Return(true, nil)

	resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
		Username: "uploaduser", DatasetName: "mydataset", Filename: "test.txt", Content: []byte("some text"),
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
	assert.Equal(t, "Invalid file type. Please upload a .csv file.", err.Error())
}

func TestUploadDataset_TooLarge(t *testing.T) {
	t.Run("unknown user wins over size", func(t *testing.T) {
		svc, mockRepo := setupTestService(t)
		ctx := context.Background()
		mockRepo.On("UserExists", ctx, "ghost").Return(false, nil)

		resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
			Username: "ghost", DatasetName: "d", Filename: "a.csv", Size: 4096, MaxBytes: 16,
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("declared size over limit", func(t *testing.T) {
		svc, mockRepo := setupTestService(t)
		ctx := context.Background()
		mockRepo.On("UserExists", ctx, "u").Return(true, nil)

		resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
			Username: "u", DatasetName: "d", Filename: "a.csv", Size: 4096, MaxBytes: 16,
		})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
		assert.Equal(t, "file_too_large", apperrors.Kind(err))
		mockRepo.AssertNotCalled(t, "PutDataset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("content over limit", func(t *testing.T) {
		svc, mockRepo := setupTestService(t)
		ctx := context.Background()
		mockRepo.On("UserExists", ctx, "u").Return(true, nil)

		_, err := svc.UploadDataset(ctx, UploadDatasetRequest{
			Username: "u", DatasetName: "d", Filename: "a.csv", Content: []byte("a\n1\n2\n3\n"), MaxBytes: 4,
		})

		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	})
}

func TestUploadDataset_DecodeFailure(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("UserExists", ctx, "u").Return(true, nil)

	resp, err := svc.UploadDataset(ctx, UploadDatasetRequest{
		Username: "u", DatasetName: "d", Filename: "bad.csv", Content: []byte{0xff, 0xfe, 0xfd},
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrProcessingFailed)
	assert.Contains(t, err.Error(), "Failed to process CSV file")
	mockRepo.AssertNotCalled(t, "PutDataset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadDataset_ValidationError(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	resp, err := svc.UploadDataset(context.Background(), UploadDatasetRequest{Username: "u", Filename: "a.csv"})

	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "DatasetName is required")
	mockRepo.AssertNotCalled(t, "UserExists", mock.Anything, mock.Anything)
}

// ==================== LIST DATASETS TESTS ====================

func TestListDatasets_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListDatasets", ctx, "userY").Return([]string{"data2", "data1"}, nil)

	resp, err := svc.ListDatasets(ctx, ListDatasetsRequest{Username: "userY"})

	require.NoError(t, err)
	assert.Equal(t, "userY", resp.Username)
	assert.Equal(t, []string{"data1", "data2"}, resp.Datasets)
}

func TestListDatasets_UserNotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListDatasets", ctx, "nosuchuser").Return(nil, domain.ErrUserNotFound)

	resp, err := svc.ListDatasets(ctx, ListDatasetsRequest{Username: "nosuchuser"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ==================== GET DATASET TESTS ====================

func TestGetDataset_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	records := []domain.Record{{{Name: "Key", Value: "K1"}, {Name: "Value", Value: "V1"}}}
	mockRepo.On("GetDataset", ctx, "userW", "final_report").Return(records, nil)

	resp, err := svc.GetDataset(ctx, GetDatasetRequest{Username: "userW", DatasetName: "final_report"})

	require.NoError(t, err)
	assert.Equal(t, records, resp.Records)
}

func TestGetDataset_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetDataset", ctx, "userZ", "nosuchdataset").Return(nil, domain.DatasetNotFound("userZ", "nosuchdataset"))

	resp, err := svc.GetDataset(ctx, GetDatasetRequest{Username: "userZ", DatasetName: "nosuchdataset"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}
