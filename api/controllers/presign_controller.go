package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/moyoez/uploadkit/api/models"
	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
	"github.com/moyoez/uploadkit/upstream"
)

const (
	MessageBadConfiguration = "There was a problem with the server configuration. Check the server logs for more information."
	MessageNotAllowed       = "You are not allowed to upload files"
	MessageFetchFailed      = "Error fetching presigned URLs"
	MessageInvalidRequest   = "Invalid request body"
)

// Upstream issues destinations for keyed files.
type Upstream interface {
	FetchPresignedURLs(ctx context.Context, request types.UpstreamRequest) (types.Destinations, error)
}

// CanUploadFunc decides whether the caller may request destinations.
type CanUploadFunc func(c *gin.Context, request *types.PresignRequest) (bool, error)

type Notifier interface {
	Broadcast(notification *types.Notification)
}

type PresignController struct {
	upstream  Upstream
	canUpload CanUploadFunc
	notifier  Notifier
}

// NewPresignController builds the route handler. canUpload and notifier are
// optional.
func NewPresignController(up Upstream, canUpload CanUploadFunc, notifier Notifier) *PresignController {
	return &PresignController{
		upstream:  up,
		canUpload: canUpload,
		notifier:  notifier,
	}
}

// HandleAction serves POST {prefix}/*action. Only the presign upload action
// exists, every other action is a configuration error on the caller side.
func (ctrl *PresignController) HandleAction(c *gin.Context) {
	action := strings.Trim(c.Param("action"), "/")
	if action != tool.PresignActionUpload {
		tool.DefaultLogger.Errorf("[Presign] Unknown action %q, only %q is supported", action, tool.PresignActionUpload)
		c.JSON(http.StatusNotFound, tool.FastReturnError(MessageBadConfiguration))
		return
	}
	ctrl.HandlePresign(c)
}

func (ctrl *PresignController) HandlePresign(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(MessageInvalidRequest))
		return
	}
	var request types.PresignRequest
	if err := sonic.Unmarshal(raw, &request); err != nil {
		tool.DefaultLogger.Debugf("[Presign] Failed to decode request: %v", err)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(MessageInvalidRequest))
		return
	}
	if issues := models.ValidatePresignRequest(&request); len(issues) > 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnErrorWithCause(MessageInvalidRequest, issues))
		return
	}

	if ctrl.canUpload != nil {
		allowed, err := ctrl.canUpload(c, &request)
		if err != nil {
			tool.DefaultLogger.Errorf("[Presign] Upload permission check failed: %v", err)
			c.JSON(http.StatusInternalServerError, tool.FastReturnError(MessageBadConfiguration))
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, tool.FastReturnError(MessageNotAllowed))
			return
		}
	}

	upstreamRequest := types.UpstreamRequest{
		Files: lo.Map(request.Files, func(f types.FileSpec, _ int) types.UpstreamFile {
			return types.UpstreamFile{
				Key:  types.DestinationKey(request.Folder, f.Name),
				Size: f.Size,
				Type: f.Type,
			}
		}),
		FileAccess: request.FileAccess,
	}

	dest, err := ctrl.upstream.FetchPresignedURLs(c.Request.Context(), upstreamRequest)
	if err != nil {
		tool.DefaultLogger.Errorf("[Presign] %v", err)
		var cause any = err.Error()
		var fetchErr *upstream.FetchError
		if errors.As(err, &fetchErr) {
			cause = fetchErr.Detail()
		}
		ctrl.notify(types.NotifyTypePresignFailed, MessageFetchFailed, map[string]any{
			"files": len(request.Files),
		})
		c.JSON(http.StatusInternalServerError, tool.FastReturnErrorWithCause(MessageFetchFailed, cause))
		return
	}

	tool.DefaultLogger.Infof("[Presign] Issued %d destinations under %q (%s)", len(dest), request.Folder, request.FileAccess)
	ctrl.notify(types.NotifyTypePresignIssued, "Destinations issued", map[string]any{
		"folder":     request.Folder,
		"fileAccess": string(request.FileAccess),
		"keys":       lo.Keys(dest),
	})
	c.JSON(http.StatusOK, dest)
}

func (ctrl *PresignController) notify(kind, message string, data map[string]any) {
	if ctrl.notifier == nil {
		return
	}
	ctrl.notifier.Broadcast(&types.Notification{
		Type:    kind,
		Title:   "Presign",
		Message: message,
		Data:    data,
	})
}
