// Package validate decides which files of a selection event are accepted.
//
// Files are validated one by one, collecting every violation. Only after the
// whole batch went through is the multiplicity rule applied: when too many
// files survived, all of them are rejected after the fact with
// too-many-files and nothing is accepted.
package validate

import (
	"fmt"
	"strings"

	"github.com/moyoez/uploadkit/types"
)

// Result partitions the files of one selection event. Every presented file
// is in exactly one of the two slices.
type Result struct {
	Accepted   []types.FileDescriptor
	Rejections []types.RejectionRecord
}

// File validates a single file against the policy. A nil error list means
// the file is accepted.
func File(file types.FileDescriptor, policy types.ValidationPolicy) (types.FileDescriptor, []types.FileError) {
	var errs []types.FileError

	if !policy.AcceptAll && !Accepts(file.Name, file.MimeType, policy.Accept) {
		errs = append(errs, invalidTypeError(policy.Accept))
	}

	if file.Size < policy.MinSize {
		errs = append(errs, types.FileError{
			Code:    types.ErrorCodeFileTooSmall,
			Message: fmt.Sprintf("File is smaller than %d bytes", policy.MinSize),
		})
	}
	if policy.MaxSize > 0 && file.Size > policy.MaxSize {
		errs = append(errs, types.FileError{
			Code:    types.ErrorCodeFileTooLarge,
			Message: fmt.Sprintf("File is larger than %d bytes", policy.MaxSize),
		})
	}

	if policy.Validator != nil {
		errs = append(errs, policy.Validator(file)...)
	}

	return file, errs
}

// Batch validates every file, then applies the multiplicity rule.
func Batch(files []types.FileDescriptor, policy types.ValidationPolicy) Result {
	var result Result
	for _, f := range files {
		file, errs := File(f, policy)
		if len(errs) == 0 {
			result.Accepted = append(result.Accepted, file)
			continue
		}
		result.Rejections = append(result.Rejections, types.RejectionRecord{
			File:   file,
			Errors: errs,
		})
	}

	if TooManyFiles(policy, len(result.Accepted)) {
		tooMany := types.FileError{
			Code:    types.ErrorCodeTooManyFiles,
			Message: fmt.Sprintf("Too many files. Maximum allowed is %d.", MaxAllowed(policy)),
		}
		for _, file := range result.Accepted {
			result.Rejections = append(result.Rejections, types.RejectionRecord{
				File:   file,
				Errors: []types.FileError{tooMany},
			})
		}
		result.Accepted = nil
	}
	return result
}

// TooManyFiles reports whether accepted exceeds what the policy allows.
func TooManyFiles(policy types.ValidationPolicy, accepted int) bool {
	if !policy.Multiple {
		return accepted > 1
	}
	return policy.MaxFiles > 0 && accepted > policy.MaxFiles
}

// MaxAllowed is the file limit reported to the user; 0 means unbounded.
func MaxAllowed(policy types.ValidationPolicy) int {
	if !policy.Multiple {
		return 1
	}
	return policy.MaxFiles
}

func invalidTypeError(accept []string) types.FileError {
	msg := "File type must be " + strings.Join(accept, ", ")
	if len(accept) > 1 {
		msg = "File type must be one of " + strings.Join(accept, ", ")
	}
	return types.FileError{Code: types.ErrorCodeFileInvalidType, Message: msg}
}
