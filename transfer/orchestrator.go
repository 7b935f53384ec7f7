package transfer

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// Callbacks observe a batch transfer. Progress, success and error of the
// same file are delivered in that order, calls for different files may
// interleave and run concurrently.
type Callbacks struct {
	OnProgress func(file types.FileDescriptor, sent, total int64)
	OnSuccess  func(file types.FileDescriptor)
	OnError    func(file types.FileDescriptor, err error)
}

type Orchestrator struct {
	client *http.Client
	// MaxConcurrent caps the number of in-flight transfers, 0 means no cap.
	MaxConcurrent int
}

func NewOrchestrator(client *http.Client, maxConcurrent int) *Orchestrator {
	if client == nil {
		client = tool.TransferHttpClient
	}
	return &Orchestrator{client: client, MaxConcurrent: maxConcurrent}
}

var defaultOrchestrator = NewOrchestrator(nil, 0)

// Transfer sends files with the default orchestrator.
func Transfer(ctx context.Context, files []types.FileDescriptor, dest types.Destinations, folder string, cb Callbacks) error {
	return defaultOrchestrator.Transfer(ctx, files, dest, folder, cb)
}

// Transfer sends every file to its destination concurrently and returns
// once all of them succeeded or failed. A file without destination is a
// *ContractError returned before anything is sent. When at least one file
// failed the result is a *TransferError.
func (o *Orchestrator) Transfer(ctx context.Context, files []types.FileDescriptor, dest types.Destinations, folder string, cb Callbacks) error {
	records := make([]types.DestinationRecord, len(files))
	for i, f := range files {
		rec, ok := dest.Lookup(folder, f.Name)
		if !ok {
			return &ContractError{File: f.Name, Key: types.DestinationKey(folder, f.Name)}
		}
		records[i] = rec
	}
	if len(files) == 0 {
		return nil
	}

	tool.DefaultLogger.Infof("[Transfer] Sending %d files", len(files))

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed []string
		errs   []error
	)
	if o.MaxConcurrent > 0 {
		g.SetLimit(o.MaxConcurrent)
	}

	for i, f := range files {
		rec := records[i]
		g.Go(func() error {
			var progress tool.ProgressFunc
			if cb.OnProgress != nil {
				progress = func(sent, total int64) { cb.OnProgress(f, sent, total) }
			}
			if err := PutFile(ctx, o.client, f, rec, progress); err != nil {
				tool.DefaultLogger.Errorf("[Transfer] %s failed: %v", f.Name, err)
				mu.Lock()
				failed = append(failed, f.Name)
				errs = append(errs, err)
				mu.Unlock()
				if cb.OnError != nil {
					cb.OnError(f, err)
				}
				return err
			}
			if cb.OnSuccess != nil {
				cb.OnSuccess(f)
			}
			return nil
		})
	}

	// every goroutine runs to completion, the aggregate below replaces the
	// first error errgroup would report
	_ = g.Wait()

	if len(failed) > 0 {
		return &TransferError{Total: len(files), Failed: failed, Errs: errs}
	}
	tool.DefaultLogger.Infof("[Transfer] All %d files sent", len(files))
	return nil
}
