// Package picker provides the two interchangeable ways a session asks the
// user for files: a blocking chooser that reports dismissal explicitly, and a
// fire-and-forget input whose result arrives later and which never reports
// dismissal on its own.
package picker

import (
	"context"
	"errors"
	"strings"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

var (
	// ErrCancelled is returned when the user dismissed the picker.
	ErrCancelled = errors.New("file picker dismissed")
	// ErrDeferred is returned by pickers that deliver their selection later
	// through the function bound with Bind.
	ErrDeferred = errors.New("file selection pending")
)

// Handle is a raw selection entry, converted into a descriptor by the session.
type Handle interface {
	Descriptor() (types.FileDescriptor, error)
}

// PathHandle refers to a file on the local filesystem.
type PathHandle string

func (p PathHandle) Descriptor() (types.FileDescriptor, error) {
	return tool.DescriptorFromPath(string(p))
}

// MemoryHandle wraps an already built descriptor.
type MemoryHandle types.FileDescriptor

func (m MemoryHandle) Descriptor() (types.FileDescriptor, error) {
	return types.FileDescriptor(m), nil
}

type Options struct {
	Multiple bool
	Accept   []string
}

type Picker interface {
	Pick(ctx context.Context, opts Options) ([]Handle, error)
	// ReportsCancel is false for pickers that cannot tell a dismissal apart
	// from a slow user; sessions fall back to the window focus heuristic.
	ReportsCancel() bool
}

// DeliverFunc receives the files chosen through a deferred picker.
type DeliverFunc func(ctx context.Context, handles []Handle)

// Deferred pickers return ErrDeferred from Pick. deliver is called with the
// chosen files; refocus is called when control returns to the caller
// without any file being chosen.
type Deferred interface {
	Picker
	Bind(deliver DeliverFunc, refocus func())
}

func pathHandles(paths []string) []Handle {
	handles := make([]Handle, 0, len(paths))
	for _, p := range paths {
		handles = append(handles, PathHandle(p))
	}
	return handles
}

func promptText(opts Options) string {
	var b strings.Builder
	if opts.Multiple {
		b.WriteString("Select files (space separated paths")
	} else {
		b.WriteString("Select a file (path")
	}
	if len(opts.Accept) > 0 {
		b.WriteString(", accepts ")
		b.WriteString(strings.Join(opts.Accept, ","))
	}
	b.WriteString("): ")
	return b.String()
}
