package types

import (
	"bytes"
	"io"
)

// ByteSource opens the raw bytes behind a selected file. Each call to Open
// returns an independent reader.
type ByteSource interface {
	Open() (io.ReadCloser, error)
}

// BytesSource is an in-memory ByteSource.
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// FileDescriptor is a candidate file of a selection event. Name is the
// identity key: two files with the same name collide in the destination map.
type FileDescriptor struct {
	Name     string     `json:"name"`
	Size     int64      `json:"size"`
	MimeType string     `json:"type"`
	Source   ByteSource `json:"-"`
}

// FileSpec is the metadata of a file as sent to the destination endpoint.
type FileSpec struct {
	Name string `json:"name" validate:"filename"`
	Size int64  `json:"size" validate:"gte=0"`
	Type string `json:"type"`
}

// Spec strips the byte source from the descriptor.
func (f FileDescriptor) Spec() FileSpec {
	return FileSpec{Name: f.Name, Size: f.Size, Type: f.MimeType}
}
