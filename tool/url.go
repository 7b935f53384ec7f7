package tool

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	PresignActionUpload = "presignedUrls/upload"
	PresignRoutePrefix  = "/api/uploadjoy"
	UpstreamPutObjects  = "/presigned-url/put-objects"
)

// BuildUpstreamURL joins the remote API base with the put-objects endpoint.
func BuildUpstreamURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + UpstreamPutObjects)
	if err != nil {
		return "", fmt.Errorf("failed to parse upstream base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("upstream base URL must be http or https, got %q", base)
	}
	return u.String(), nil
}

// BuildEndpointURL builds the route boundary URL for a local server.
func BuildEndpointURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d%s/%s", host, port, PresignRoutePrefix, PresignActionUpload)
}

// BuildObjectURL appends an object key to a public base URL.
func BuildObjectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
