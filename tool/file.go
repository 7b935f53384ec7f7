package tool

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/moyoez/uploadkit/types"
)

const DefaultMimeType = "application/octet-stream"

// FileSource reads a file from the local filesystem on demand.
type FileSource string

func (p FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

// DescriptorFromPath stats a local file and builds its descriptor. The MIME
// type comes from the extension, falling back to content sniffing.
func DescriptorFromPath(filePath string) (types.FileDescriptor, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return types.FileDescriptor{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return types.FileDescriptor{}, fmt.Errorf("%s is a directory, not a file", filePath)
	}
	return types.FileDescriptor{
		Name:     filepath.Base(filePath),
		Size:     info.Size(),
		MimeType: DetectMimeType(filePath),
		Source:   FileSource(filePath),
	}, nil
}

// DetectMimeType returns the bare media type of a file, without parameters.
func DetectMimeType(filePath string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
		return stripMediaParams(byExt)
	}
	detected, err := mimetype.DetectFile(filePath)
	if err != nil {
		DefaultLogger.Debugf("MIME sniffing failed for %s: %v", filePath, err)
		return DefaultMimeType
	}
	return stripMediaParams(detected.String())
}

func stripMediaParams(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.TrimSpace(base)
}
