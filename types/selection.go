package types

// SelectionState is replaced wholesale on every files-chosen or reset event.
// Destinations is nil until a destination round trip succeeded.
type SelectionState struct {
	DialogOpen    bool              `json:"isFileDialogActive"`
	Focused       bool              `json:"isFocused"`
	AcceptedFiles []FileDescriptor  `json:"acceptedFiles"`
	Rejections    []RejectionRecord `json:"fileRejections"`
	Destinations  Destinations      `json:"presignedUrls,omitempty"`
}

type TransferStatus int

const (
	TransferInProgress TransferStatus = iota
	TransferSucceeded
	TransferFailed
)

func (s TransferStatus) String() string {
	switch s {
	case TransferInProgress:
		return "in-progress"
	case TransferSucceeded:
		return "succeeded"
	case TransferFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransferOutcome is an ephemeral per-file view of a transfer.
type TransferOutcome struct {
	File       FileDescriptor
	Status     TransferStatus
	BytesSent  int64
	BytesTotal int64
	Err        error
}
