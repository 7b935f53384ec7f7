package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/uploadkit/types"
)

func file(name string, size int64, mimeType string) types.FileDescriptor {
	return types.FileDescriptor{Name: name, Size: size, MimeType: mimeType, Source: types.BytesSource(nil)}
}

func codes(errs []types.FileError) []types.ErrorCode {
	out := make([]types.ErrorCode, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestFileCollectsAllErrors(t *testing.T) {
	policy := types.ValidationPolicy{
		Accept:  []string{"image/*"},
		MinSize: 10,
		Validator: func(types.FileDescriptor) []types.FileError {
			return []types.FileError{{Code: "name-too-boring", Message: "boring"}}
		},
	}

	_, errs := File(file("notes.txt", 1, "text/plain"), policy)

	assert.Equal(t, []types.ErrorCode{
		types.ErrorCodeFileInvalidType,
		types.ErrorCodeFileTooSmall,
		"name-too-boring",
	}, codes(errs))
}

func TestFileSizeBounds(t *testing.T) {
	policy := types.ValidationPolicy{MinSize: 1, MaxSize: 100}

	_, errs := File(file("empty.bin", 0, "application/octet-stream"), policy)
	assert.Equal(t, []types.ErrorCode{types.ErrorCodeFileTooSmall}, codes(errs))

	_, errs = File(file("exact.bin", 100, "application/octet-stream"), policy)
	assert.Empty(t, errs, "max size is inclusive")

	_, errs = File(file("big.bin", 101, "application/octet-stream"), policy)
	assert.Equal(t, []types.ErrorCode{types.ErrorCodeFileTooLarge}, codes(errs))
}

func TestFileAcceptAllSkipsTypeCheck(t *testing.T) {
	policy := types.ValidationPolicy{Accept: []string{"image/png"}, AcceptAll: true}
	_, errs := File(file("a.txt", 3, "text/plain"), policy)
	assert.Empty(t, errs)
}

func TestFileCustomValidatorMayAccept(t *testing.T) {
	policy := types.ValidationPolicy{
		Validator: func(types.FileDescriptor) []types.FileError { return nil },
	}
	_, errs := File(file("a.txt", 3, "text/plain"), policy)
	assert.Empty(t, errs)
}

func TestBatchEveryFileLandsOnce(t *testing.T) {
	policy := types.ValidationPolicy{Multiple: true, Accept: []string{".png"}, MaxSize: 50}
	files := []types.FileDescriptor{
		file("a.png", 10, "image/png"),
		file("b.jpg", 10, "image/jpeg"),
		file("c.png", 500, "image/png"),
		file("d.PNG", 20, "image/png"),
	}

	result := Batch(files, policy)

	require.Len(t, result.Accepted, 2)
	require.Len(t, result.Rejections, 2)
	assert.Equal(t, "a.png", result.Accepted[0].Name)
	assert.Equal(t, "d.PNG", result.Accepted[1].Name)
	assert.Equal(t, "b.jpg", result.Rejections[0].File.Name)
	assert.Equal(t, "c.png", result.Rejections[1].File.Name)
}

func TestBatchSingleFileModeRejectsPair(t *testing.T) {
	policy := types.ValidationPolicy{Multiple: false}
	result := Batch([]types.FileDescriptor{
		file("a.png", 1, "image/png"),
		file("b.png", 1, "image/png"),
	}, policy)

	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejections, 2)
	for _, r := range result.Rejections {
		require.Len(t, r.Errors, 1)
		assert.Equal(t, types.ErrorCodeTooManyFiles, r.Errors[0].Code)
		assert.Equal(t, "Too many files. Maximum allowed is 1.", r.Errors[0].Message)
	}
}

func TestBatchMaxFiles(t *testing.T) {
	policy := types.ValidationPolicy{Multiple: true, MaxFiles: 2}
	three := []types.FileDescriptor{
		file("a", 1, "text/plain"),
		file("b", 1, "text/plain"),
		file("c", 1, "text/plain"),
	}

	result := Batch(three, policy)
	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejections, 3)
	for _, r := range result.Rejections {
		assert.Equal(t, types.ErrorCodeTooManyFiles, r.Errors[0].Code)
		assert.Contains(t, r.Errors[0].Message, "2")
	}

	result = Batch(three[:2], policy)
	assert.Len(t, result.Accepted, 2)
	assert.Empty(t, result.Rejections)
}

func TestBatchMultiplicityCountsOnlyAccepted(t *testing.T) {
	// Two valid files and one invalid: the limit of 2 is not exceeded, so the
	// individually rejected file keeps its own error and the rest pass.
	policy := types.ValidationPolicy{Multiple: true, MaxFiles: 2, MinSize: 1}
	result := Batch([]types.FileDescriptor{
		file("a", 1, "text/plain"),
		file("empty", 0, "text/plain"),
		file("b", 1, "text/plain"),
	}, policy)

	assert.Len(t, result.Accepted, 2)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, types.ErrorCodeFileTooSmall, result.Rejections[0].Errors[0].Code)
}

func TestBatchRetroactiveRejectionKeepsEarlierRejections(t *testing.T) {
	policy := types.ValidationPolicy{Multiple: false, Accept: []string{"image/*"}}
	result := Batch([]types.FileDescriptor{
		file("a.txt", 1, "text/plain"),
		file("b.png", 1, "image/png"),
		file("c.png", 1, "image/png"),
	}, policy)

	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejections, 3)
	assert.Equal(t, types.ErrorCodeFileInvalidType, result.Rejections[0].Errors[0].Code)
	assert.Equal(t, types.ErrorCodeTooManyFiles, result.Rejections[1].Errors[0].Code)
	assert.Equal(t, types.ErrorCodeTooManyFiles, result.Rejections[2].Errors[0].Code)
}
