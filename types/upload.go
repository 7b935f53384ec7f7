package types

import "fmt"

// FileAccess controls whether uploaded objects are publicly retrievable.
type FileAccess string

const (
	FileAccessPublic  FileAccess = "public"
	FileAccessPrivate FileAccess = "private"
)

func (a FileAccess) Valid() bool {
	return a == FileAccessPublic || a == FileAccessPrivate
}

func ParseFileAccess(s string) (FileAccess, error) {
	a := FileAccess(s)
	if !a.Valid() {
		return "", fmt.Errorf("invalid file access %q: must be public or private", s)
	}
	return a, nil
}

// PresignRequest is the body posted by a caller to the route boundary.
type PresignRequest struct {
	Files      []FileSpec `json:"files" validate:"required,min=1,dive"`
	Folder     string     `json:"folder" validate:"omitempty,folder"`
	FileAccess FileAccess `json:"fileAccess" validate:"required,oneof=public private"`
}

// DestinationRecord is a one-time write endpoint plus the durable reference
// of the object once written.
type DestinationRecord struct {
	URL      string `json:"url"`
	Location string `json:"location"`
}

// Destinations maps the lookup key (folder + name) to its destination.
type Destinations map[string]DestinationRecord

// DestinationKey is the literal folder prefix plus the file name. No path
// normalization is applied.
func DestinationKey(folder, name string) string {
	return folder + name
}

// Lookup finds the destination of a file submitted under folder.
func (d Destinations) Lookup(folder, name string) (DestinationRecord, bool) {
	rec, ok := d[DestinationKey(folder, name)]
	return rec, ok
}

// UpstreamFile is one entry of the request forwarded to the remote service.
type UpstreamFile struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// UpstreamRequest is the body posted to the remote put-objects endpoint.
type UpstreamRequest struct {
	Files      []UpstreamFile `json:"files"`
	FileAccess FileAccess     `json:"fileAccess"`
}
