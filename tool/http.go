package tool

import (
	"net"
	"net/http"
	"time"
)

var (
	DefaultTimeout = 30 * time.Second
	// ControlHttpClient carries small JSON requests (destinations, upstream).
	ControlHttpClient *http.Client
	// TransferHttpClient carries file bodies and has no overall deadline.
	TransferHttpClient *http.Client
)

func init() {
	ControlHttpClient = NewHTTPClient(DefaultTimeout)
	TransferHttpClient = NewHTTPClient(0)
}

// NewHTTPClient creates an HTTP client. A zero timeout disables the overall
// request deadline, dialing still times out after DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   DefaultTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return ControlHttpClient
}

// NewHTTPReqWithApplication marks a request as carrying JSON.
func NewHTTPReqWithApplication(req *http.Request, err error) (*http.Request, error) {
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
