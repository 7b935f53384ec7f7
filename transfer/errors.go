package transfer

import (
	"fmt"
	"strings"
)

// AcquisitionKind tells which stage of the destination round trip failed.
type AcquisitionKind string

const (
	AcquisitionNetwork AcquisitionKind = "network"
	AcquisitionStatus  AcquisitionKind = "status"
	AcquisitionDecode  AcquisitionKind = "decode"
	AcquisitionSchema  AcquisitionKind = "schema"
)

// AcquisitionError is returned when no destinations could be obtained.
// Whatever the kind, the caller ends up without any destination.
type AcquisitionError struct {
	Kind       AcquisitionKind
	StatusCode int
	Err        error
}

func (e *AcquisitionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to acquire destinations (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to acquire destinations (%s): %v", e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// ContractError means a transfer was started for a file that has no
// destination. Nothing is sent when it is returned.
type ContractError struct {
	File string
	Key  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("no destination for %q (key %q): destinations were not acquired for this file", e.File, e.Key)
}

// StatusError is a non-2xx answer of a destination URL.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload rejected: %s", e.Status)
	}
	return fmt.Sprintf("upload rejected: %s: %s", e.Status, e.Body)
}

// TransferError aggregates the failed files of a batch once every transfer
// of the batch has settled.
type TransferError struct {
	Total  int
	Failed []string
	Errs   []error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%d of %d transfers failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}

func (e *TransferError) Unwrap() []error {
	return e.Errs
}
