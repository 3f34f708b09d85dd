package user

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dataset-registry-service/pkg/errors"
)

func TestNew_StartsWithEmptyCollection(t *testing.T) {
	u := New("alice")

	assert.Equal(t, "alice", u.Name)
	assert.Empty(t, u.DatasetNames())
	_, ok := u.Dataset("anything")
	assert.False(t, ok)
}

func TestUser_PutDatasetReplaces(t *testing.T) {
	u := New("alice")
	u.PutDataset("report", []Record{{{Name: "a", Value: "1"}}, {{Name: "a", Value: "2"}}})
	u.PutDataset("report", []Record{{{Name: "b", Value: "9"}}})

	got, ok := u.Dataset("report")
	require.True(t, ok)
	assert.Equal(t, []Record{{{Name: "b", Value: "9"}}}, got)
	assert.Equal(t, []string{"report"}, u.DatasetNames())
}

func TestUser_DatasetIsCopied(t *testing.T) {
	src := []Record{{{Name: "a", Value: "1"}}}
	u := New("alice")
	u.PutDataset("d", src)

	src[0][0].Value = "mutated"
	got, _ := u.Dataset("d")
	assert.Equal(t, "1", got[0][0].Value)

	got[0][0].Value = "mutated again"
	again, _ := u.Dataset("d")
	assert.Equal(t, "1", again[0][0].Value)
}

func TestUser_DatasetNamesSorted(t *testing.T) {
	u := New("alice")
	u.PutDataset("zeta", nil)
	u.PutDataset("alpha", nil)

	assert.Equal(t, []string{"alpha", "zeta"}, u.DatasetNames())
}

func TestRecord_JSONRoundTripKeepsOrder(t *testing.T) {
	rec := Record{{Name: "Name", Value: "Alice"}, {Name: "ID", Value: "1"}}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"Alice","ID":"1"}`, string(data))

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	var rec Record
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &rec))
}

func TestErrors(t *testing.T) {
	err := DatasetNotFound("alice", "report")
	assert.True(t, errors.Is(err, ErrDatasetNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "Dataset 'report' not found for user 'alice'", err.Error())

	wrapped := ProcessingFailed(errors.New("boom"))
	assert.True(t, errors.Is(wrapped, ErrProcessingFailed))
	assert.Equal(t, "Failed to process CSV file: boom", wrapped.Error())
	assert.Equal(t, "invalid_file_type", apperrors.Kind(ErrInvalidFileType))
	assert.Equal(t, "user_not_found", apperrors.Kind(ErrUserNotFound))
}
