package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// Client asks the destination endpoint for one write URL per file. Exactly
// one request is made per call.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = tool.GetHttpClient()
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// RequestDestinations posts the file metadata and returns the destinations
// keyed by folder + name. Entries for keys that were not requested are
// dropped, requested keys missing from the answer stay absent.
func (c *Client) RequestDestinations(ctx context.Context, files []types.FileSpec, folder string, access types.FileAccess) (types.Destinations, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("invalid parameters: no files to request destinations for")
	}

	payload, err := sonic.Marshal(types.PresignRequest{
		Files:      files,
		Folder:     folder,
		FileAccess: access,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal destination request: %v", err)
	}

	req, err := tool.NewHTTPReqWithApplication(http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create destination request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AcquisitionError{Kind: AcquisitionNetwork, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AcquisitionError{Kind: AcquisitionNetwork, StatusCode: resp.StatusCode, Err: err}
	}
	tool.DefaultLogger.Debugf("[Destinations] Response from %s: %s", c.endpoint, string(body))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &AcquisitionError{
			Kind:       AcquisitionStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("destination endpoint answered %s: %s", resp.Status, string(body)),
		}
	}

	var decoded map[string]types.DestinationRecord
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, &AcquisitionError{Kind: AcquisitionDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if decoded == nil {
		return nil, &AcquisitionError{Kind: AcquisitionSchema, StatusCode: resp.StatusCode, Err: errors.New("response is not an object")}
	}

	dest := make(types.Destinations, len(files))
	for _, f := range files {
		key := types.DestinationKey(folder, f.Name)
		rec, ok := decoded[key]
		if !ok {
			tool.DefaultLogger.Warnf("[Destinations] No destination returned for %s", key)
			continue
		}
		if err := checkRecord(rec); err != nil {
			return nil, &AcquisitionError{
				Kind:       AcquisitionSchema,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("destination %s: %w", key, err),
			}
		}
		dest[key] = rec
	}
	if extra := len(decoded) - len(dest); extra > 0 {
		tool.DefaultLogger.Debugf("[Destinations] Ignored %d unrequested or missing entries", extra)
	}
	tool.DefaultLogger.Infof("[Destinations] Acquired %d of %d destinations", len(dest), len(files))
	return dest, nil
}

func checkRecord(rec types.DestinationRecord) error {
	if rec.URL == "" {
		return errors.New("missing url")
	}
	if rec.Location == "" {
		return errors.New("missing location")
	}
	u, err := url.Parse(rec.URL)
	if err != nil {
		return fmt.Errorf("malformed url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	return nil
}
