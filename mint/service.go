package mint

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FloatTech/ttl"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

const DefaultExpires = 15 * time.Minute

// ConflictError lists keys that already have a live write URL.
type ConflictError struct {
	Keys []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("destination already issued for %s", strings.Join(e.Keys, ", "))
}

// Service hands out at most one live write URL per key.
type Service struct {
	presigner Presigner
	apiKey    string
	expires   time.Duration

	mu     sync.Mutex
	issued *ttl.Cache[string, bool]
}

func NewService(presigner Presigner, apiKey string, expires time.Duration) *Service {
	if expires <= 0 {
		expires = DefaultExpires
	}
	return &Service{
		presigner: presigner,
		apiKey:    apiKey,
		expires:   expires,
		issued:    ttl.NewCache[string, bool](expires),
	}
}

// Issue presigns one PUT per file. Nothing is issued when any key is
// repeated or still has a live URL.
func (s *Service) Issue(ctx context.Context, request types.UpstreamRequest) (types.Destinations, error) {
	keys := lo.Map(request.Files, func(f types.UpstreamFile, _ int) string { return f.Key })
	if dup := lo.FindDuplicates(keys); len(dup) > 0 {
		return nil, &ConflictError{Keys: dup}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := lo.Filter(keys, func(k string, _ int) bool { return s.issued.Get(k) })
	if len(live) > 0 {
		return nil, &ConflictError{Keys: live}
	}

	dest := make(types.Destinations, len(request.Files))
	for _, f := range request.Files {
		signed, err := s.presigner.PresignPut(ctx, f.Key, f.Type, s.expires)
		if err != nil {
			return nil, err
		}
		dest[f.Key] = types.DestinationRecord{
			URL:      signed,
			Location: s.presigner.Location(f.Key, request.FileAccess),
		}
	}
	for _, k := range keys {
		s.issued.Set(k, true)
	}
	tool.DefaultLogger.Infof("[Mint] Issued %d write URLs (%s)", len(dest), request.FileAccess)
	return dest, nil
}

// FetchPresignedURLs lets the service stand in for the remote client.
func (s *Service) FetchPresignedURLs(ctx context.Context, request types.UpstreamRequest) (types.Destinations, error) {
	return s.Issue(ctx, request)
}

func (s *Service) authorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || s.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.apiKey)) == 1
}

// Handle serves POST /presigned-url/put-objects.
func (s *Service) Handle(c *gin.Context) {
	if !s.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, tool.FastReturnError("Invalid API key"))
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}
	var request types.UpstreamRequest
	if err := sonic.Unmarshal(raw, &request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}
	if len(request.Files) == 0 || !request.FileAccess.Valid() {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("files and a valid fileAccess are required"))
		return
	}
	if lo.SomeBy(request.Files, func(f types.UpstreamFile) bool { return f.Key == "" || f.Size < 0 }) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("every file needs a key and a non-negative size"))
		return
	}

	dest, err := s.Issue(c.Request.Context(), request)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, tool.FastReturnErrorWithData(err.Error(), map[string]any{"keys": conflict.Keys}))
			return
		}
		tool.DefaultLogger.Errorf("[Mint] %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to presign objects"))
		return
	}
	c.JSON(http.StatusOK, dest)
}
