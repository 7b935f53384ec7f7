package types

// ErrorCode identifies why a file was rejected. Custom validators may use
// codes outside the predefined set.
type ErrorCode string

const (
	ErrorCodeFileInvalidType ErrorCode = "file-invalid-type"
	ErrorCodeFileTooSmall    ErrorCode = "too-small"
	ErrorCodeFileTooLarge    ErrorCode = "too-large"
	ErrorCodeTooManyFiles    ErrorCode = "too-many-files"
)

type FileError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RejectionRecord carries every error collected for one rejected file.
type RejectionRecord struct {
	File   FileDescriptor `json:"file"`
	Errors []FileError    `json:"errors"`
}

// CustomValidator returns the extra errors for a file; an empty result means
// the validator has no objection.
type CustomValidator func(file FileDescriptor) []FileError

// ValidationPolicy is fixed for the lifetime of a selection session.
type ValidationPolicy struct {
	// Accept lists MIME types, MIME wildcards ("image/*") or extensions
	// (".png"). Empty means every type is accepted.
	Accept    []string
	AcceptAll bool
	Multiple  bool
	MinSize   int64
	// MaxSize of 0 means unbounded.
	MaxSize int64
	// MaxFiles of 0 means unbounded. Only consulted when Multiple is set.
	MaxFiles  int
	Validator CustomValidator
}

// DefaultValidationPolicy mirrors the defaults of the upload input: multiple
// files, no size bounds, no file limit.
func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{Multiple: true}
}
