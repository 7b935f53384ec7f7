package types

const (
	NotifyTypePresignIssued = "presign_issued"
	NotifyTypePresignFailed = "presign_failed"
)

// Notification is broadcast to local listeners of the notify websocket.
type Notification struct {
	Type    string         `json:"type,omitempty"`
	Title   string         `json:"title,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
