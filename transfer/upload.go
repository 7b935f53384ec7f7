package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// ObjectCacheControl is sent with every object body.
const ObjectCacheControl = "max-age=630720000"

// PutFile streams one file to its write URL as a single request whose body
// is the whole file.
func PutFile(ctx context.Context, client *http.Client, file types.FileDescriptor, dest types.DestinationRecord, onProgress tool.ProgressFunc) error {
	if file.Source == nil {
		return fmt.Errorf("invalid parameters: %s has no content source", file.Name)
	}
	if dest.URL == "" {
		return fmt.Errorf("invalid parameters: destination url must not be empty")
	}
	if client == nil {
		client = tool.TransferHttpClient
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("upload cancelled: %w", ctx.Err())
	default:
	}

	src, err := file.Source.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", file.Name, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			tool.DefaultLogger.Debugf("Failed to close source of %s: %v", file.Name, err)
		}
	}()

	var body io.Reader = http.NoBody
	if file.Size > 0 {
		body = tool.NewProgressReader(src, file.Size, onProgress)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dest.URL, body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %v", err)
	}
	req.ContentLength = file.Size
	contentType := file.MimeType
	if contentType == "" {
		contentType = tool.DefaultMimeType
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", ObjectCacheControl)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("upload cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to send upload request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if file.Size == 0 && onProgress != nil {
		onProgress(0, 0)
	}
	tool.DefaultLogger.Debugf("[Upload] %s stored at %s", file.Name, dest.Location)
	return nil
}
