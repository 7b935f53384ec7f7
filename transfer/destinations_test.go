package transfer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/uploadkit/types"
)

func destinationServer(t *testing.T, status int, body string, seen *types.PresignRequest, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if seen != nil {
			require.NoError(t, sonic.Unmarshal(raw, seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRequestDestinationsSingleRoundTrip(t *testing.T) {
	var (
		seen  types.PresignRequest
		calls atomic.Int32
	)
	srv := destinationServer(t, http.StatusOK, `{
		"photos/a.png": {"url": "https://store.example/a?sig=1", "location": "https://cdn.example/photos/a.png"},
		"photos/b.png": {"url": "https://store.example/b?sig=2", "location": "https://cdn.example/photos/b.png"}
	}`, &seen, &calls)

	client := NewClient(srv.URL, srv.Client())
	files := []types.FileSpec{
		{Name: "a.png", Size: 10, Type: "image/png"},
		{Name: "b.png", Size: 20, Type: "image/png"},
	}
	dest, err := client.RequestDestinations(context.Background(), files, "photos/", types.FileAccessPublic)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, files, seen.Files)
	assert.Equal(t, "photos/", seen.Folder)
	assert.Equal(t, types.FileAccessPublic, seen.FileAccess)

	rec, ok := dest.Lookup("photos/", "a.png")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/photos/a.png", rec.Location)
	_, ok = dest.Lookup("", "a.png")
	assert.False(t, ok)
}

func TestRequestDestinationsMissingAndExtraKeys(t *testing.T) {
	srv := destinationServer(t, http.StatusOK, `{
		"photos/a.png": {"url": "https://store.example/a", "location": "loc-a"},
		"photos/zzz.png": {"url": "https://store.example/z", "location": "loc-z"}
	}`, nil, nil)

	client := NewClient(srv.URL, srv.Client())
	dest, err := client.RequestDestinations(context.Background(), []types.FileSpec{
		{Name: "a.png"}, {Name: "b.png"},
	}, "photos/", types.FileAccessPrivate)
	require.NoError(t, err)

	assert.Len(t, dest, 1)
	_, ok := dest.Lookup("photos/", "b.png")
	assert.False(t, ok)
	_, ok = dest["photos/zzz.png"]
	assert.False(t, ok)
}

func TestRequestDestinationsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   AcquisitionKind
	}{
		{"server error", http.StatusInternalServerError, `{"message":"Error fetching presigned URLs"}`, AcquisitionStatus},
		{"forbidden", http.StatusForbidden, `{"message":"You are not allowed to upload files"}`, AcquisitionStatus},
		{"not json", http.StatusOK, `<html></html>`, AcquisitionDecode},
		{"array", http.StatusOK, `[]`, AcquisitionDecode},
		{"null", http.StatusOK, `null`, AcquisitionSchema},
		{"missing url", http.StatusOK, `{"a.png":{"location":"x"}}`, AcquisitionSchema},
		{"missing location", http.StatusOK, `{"a.png":{"url":"https://store.example/a"}}`, AcquisitionSchema},
		{"bad scheme", http.StatusOK, `{"a.png":{"url":"ftp://store.example/a","location":"x"}}`, AcquisitionSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := destinationServer(t, tt.status, tt.body, nil, nil)
			client := NewClient(srv.URL, srv.Client())

			dest, err := client.RequestDestinations(context.Background(), []types.FileSpec{{Name: "a.png"}}, "", types.FileAccessPrivate)
			assert.Nil(t, dest)

			var acqErr *AcquisitionError
			require.True(t, errors.As(err, &acqErr), "got %v", err)
			assert.Equal(t, tt.kind, acqErr.Kind)
		})
	}
}

func TestRequestDestinationsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewClient(endpoint, nil)
	_, err := client.RequestDestinations(context.Background(), []types.FileSpec{{Name: "a.png"}}, "", types.FileAccessPrivate)

	var acqErr *AcquisitionError
	require.True(t, errors.As(err, &acqErr))
	assert.Equal(t, AcquisitionNetwork, acqErr.Kind)
}

func TestRequestDestinationsRejectsEmptyBatch(t *testing.T) {
	var calls atomic.Int32
	srv := destinationServer(t, http.StatusOK, `{}`, nil, &calls)

	_, err := NewClient(srv.URL, srv.Client()).RequestDestinations(context.Background(), nil, "", types.FileAccessPrivate)
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}
