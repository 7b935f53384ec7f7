package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moyoez/uploadkit/types"
)

func TestValidatePresignRequest(t *testing.T) {
	valid := types.PresignRequest{
		Files:      []types.FileSpec{{Name: "my-file.txt", Size: 1, Type: "text/plain"}},
		Folder:     "my-folder/sub_folder/",
		FileAccess: types.FileAccessPrivate,
	}
	assert.Empty(t, ValidatePresignRequest(&valid))

	noFolder := valid
	noFolder.Folder = ""
	assert.Empty(t, ValidatePresignRequest(&noFolder))

	tests := []struct {
		name    string
		mutate  func(r *types.PresignRequest)
		path    string
		message string
	}{
		{"folder without slash", func(r *types.PresignRequest) { r.Folder = "photos" }, "folder", FolderMessage},
		{"folder with space", func(r *types.PresignRequest) { r.Folder = "my photos/" }, "folder", FolderMessage},
		{"leading slash", func(r *types.PresignRequest) { r.Folder = "/photos/" }, "folder", FolderMessage},
		{"bad file name", func(r *types.PresignRequest) {
			r.Files = []types.FileSpec{{Name: "my file.txt"}}
		}, "files[0].name", FilenameMessage},
		{"path in file name", func(r *types.PresignRequest) {
			r.Files = []types.FileSpec{{Name: "ok.txt"}, {Name: "../etc/passwd"}}
		}, "files[1].name", FilenameMessage},
		{"negative size", func(r *types.PresignRequest) {
			r.Files = []types.FileSpec{{Name: "a", Size: -1}}
		}, "files[0].size", "Must be greater than or equal to 0"},
		{"no files", func(r *types.PresignRequest) { r.Files = nil }, "files", "Required"},
		{"bad access", func(r *types.PresignRequest) { r.FileAccess = "world" }, "fileAccess", "Must be one of: public private"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			issues := ValidatePresignRequest(&req)
			if assert.Len(t, issues, 1) {
				assert.Equal(t, tt.path, issues[0].Path)
				assert.Equal(t, tt.message, issues[0].Message)
			}
		})
	}
}

func TestValidFolder(t *testing.T) {
	assert.True(t, ValidFolder(""))
	assert.True(t, ValidFolder("a/"))
	assert.True(t, ValidFolder("a-b/c_d/"))
	assert.False(t, ValidFolder("a//"))
	assert.False(t, ValidFolder("a/b"))
}
