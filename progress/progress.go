// Package progress renders a batch transfer on a terminal and keeps the
// per-file outcome of the batch.
package progress

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/moyoez/uploadkit/transfer"
	"github.com/moyoez/uploadkit/types"
)

// Tracker aggregates every file of a batch into a single byte bar.
type Tracker struct {
	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	outcomes map[string]*types.TransferOutcome
	order    []string
	sent     int64
}

// NewTracker prepares a tracker for files. A nil out disables rendering.
func NewTracker(out io.Writer, files []types.FileDescriptor) *Tracker {
	t := &Tracker{outcomes: make(map[string]*types.TransferOutcome, len(files))}
	var total int64
	for _, f := range files {
		total += f.Size
		t.order = append(t.order, f.Name)
		t.outcomes[f.Name] = &types.TransferOutcome{
			File:       f,
			Status:     types.TransferInProgress,
			BytesTotal: f.Size,
		}
	}
	if out != nil {
		t.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription(fmt.Sprintf("uploading %d files", len(files))),
			progressbar.OptionSetWriter(out),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(out, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return t
}

// Callbacks returns transfer callbacks feeding the tracker, chained to next.
func (t *Tracker) Callbacks(next transfer.Callbacks) transfer.Callbacks {
	return transfer.Callbacks{
		OnProgress: func(f types.FileDescriptor, sent, total int64) {
			t.OnProgress(f, sent, total)
			if next.OnProgress != nil {
				next.OnProgress(f, sent, total)
			}
		},
		OnSuccess: func(f types.FileDescriptor) {
			t.OnSuccess(f)
			if next.OnSuccess != nil {
				next.OnSuccess(f)
			}
		},
		OnError: func(f types.FileDescriptor, err error) {
			t.OnError(f, err)
			if next.OnError != nil {
				next.OnError(f, err)
			}
		},
	}
}

func (t *Tracker) OnProgress(f types.FileDescriptor, sent, _ int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.outcomes[f.Name]
	if !ok {
		return
	}
	if delta := sent - o.BytesSent; delta > 0 {
		t.sent += delta
		o.BytesSent = sent
		if t.bar != nil {
			_ = t.bar.Set64(t.sent)
		}
	}
}

func (t *Tracker) OnSuccess(f types.FileDescriptor) {
	t.settle(f.Name, types.TransferSucceeded, nil)
}

func (t *Tracker) OnError(f types.FileDescriptor, err error) {
	t.settle(f.Name, types.TransferFailed, err)
}

func (t *Tracker) settle(name string, status types.TransferStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.outcomes[name]
	if !ok {
		return
	}
	o.Status = status
	o.Err = err
	if t.bar != nil {
		t.bar.Describe(fmt.Sprintf("%s %s", name, status))
	}
}

// Finish completes the bar.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bar != nil {
		_ = t.bar.Finish()
	}
}

// Outcomes returns a copy of the per-file outcomes in selection order.
func (t *Tracker) Outcomes() []types.TransferOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.TransferOutcome, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.outcomes[name])
	}
	return out
}

// Failed returns the names of the failed files.
func (t *Tracker) Failed() []string {
	var failed []string
	for _, o := range t.Outcomes() {
		if o.Status == types.TransferFailed {
			failed = append(failed, o.File.Name)
		}
	}
	return slices.Clip(failed)
}
