package selection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/moyoez/uploadkit/picker"
	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/transfer"
	"github.com/moyoez/uploadkit/types"
	"github.com/moyoez/uploadkit/validate"
)

// FocusGracePeriod is how long a session waits after the window regained
// focus before deciding a deferred picker was dismissed.
const FocusGracePeriod = 300 * time.Millisecond

// ErrNoDestinations is returned by Upload when the current selection has no
// destinations.
var ErrNoDestinations = errors.New("no destinations for the current selection")

type DestinationRequester interface {
	RequestDestinations(ctx context.Context, files []types.FileSpec, folder string, access types.FileAccess) (types.Destinations, error)
}

type Uploader interface {
	Transfer(ctx context.Context, files []types.FileDescriptor, dest types.Destinations, folder string, cb transfer.Callbacks) error
}

type Callbacks struct {
	OnDialogOpen     func()
	OnDialogCancel   func()
	OnError          func(err error)
	OnUploadProgress func(file types.FileDescriptor, sent, total int64)
	OnUploadSuccess  func(file types.FileDescriptor)
	OnUploadError    func(file types.FileDescriptor, err error)
}

type Options struct {
	// Policy defaults to types.DefaultValidationPolicy, multiple files
	// without bounds, when nil.
	Policy     *types.ValidationPolicy
	Folder     string
	FileAccess types.FileAccess
	Disabled   bool
	// Picker is detected from the terminal when nil.
	Picker       picker.Picker
	Destinations DestinationRequester
	// Uploader defaults to the package level transfer orchestrator.
	Uploader         Uploader
	FocusGracePeriod time.Duration
	Callbacks
}

// Session owns one selection state. All state transitions go through a
// single lock, selection events are processed one at a time.
type Session struct {
	id     string
	opts   Options
	policy types.ValidationPolicy
	picker picker.Picker
	grace  time.Duration

	// serializes files-chosen processing
	events sync.Mutex

	mu          sync.Mutex
	state       types.SelectionState
	dialogGen   uint64
	resets      uint64
	filesChosen bool
	closed      chan struct{}
}

func NewSession(opts Options) (*Session, error) {
	if opts.Picker == nil {
		opts.Picker = picker.Detect(true, os.Stdin, os.Stderr)
	}
	if opts.Destinations == nil {
		return nil, fmt.Errorf("invalid parameters: a destination requester is required")
	}
	if opts.FileAccess == "" {
		opts.FileAccess = types.FileAccessPrivate
	}
	if !opts.FileAccess.Valid() {
		return nil, fmt.Errorf("invalid file access %q", opts.FileAccess)
	}
	if opts.FocusGracePeriod <= 0 {
		opts.FocusGracePeriod = FocusGracePeriod
	}
	policy := types.DefaultValidationPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	closed := make(chan struct{})
	close(closed)
	s := &Session{
		id:     tool.GenerateShortID(),
		opts:   opts,
		policy: policy,
		picker: opts.Picker,
		grace:  opts.FocusGracePeriod,
		state:  InitialState(),
		closed: closed,
	}
	if deferred, ok := opts.Picker.(picker.Deferred); ok {
		deferred.Bind(s.InputChanged, s.WindowFocus)
	}
	tool.DefaultLogger.Debugf("[Session %s] Created (reports cancel: %v)", s.id, s.picker.ReportsCancel())
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state. Focus is never reported
// for a disabled session.
func (s *Session) Snapshot() types.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Clone(s.state)
	snap.Focused = snap.Focused && !s.opts.Disabled
	return snap
}

// DialogClosed returns a channel closed once the dialog opened last is
// closed again, by a selection or a cancellation.
func (s *Session) DialogClosed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) dispatch(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(e)
}

// apply must be called with mu held.
func (s *Session) apply(e Event) {
	wasOpen := s.state.DialogOpen
	s.state = Reduce(s.state, e)
	switch {
	case !wasOpen && s.state.DialogOpen:
		s.closed = make(chan struct{})
	case wasOpen && !s.state.DialogOpen:
		close(s.closed)
	}
}

// OpenDialog shows the picker. Only one dialog can be open at a time, extra
// calls are ignored while one is open.
func (s *Session) OpenDialog(ctx context.Context) {
	if s.opts.Disabled {
		return
	}

	s.mu.Lock()
	if s.state.DialogOpen {
		s.mu.Unlock()
		tool.DefaultLogger.Debugf("[Session %s] Dialog already open", s.id)
		return
	}
	s.apply(OpenDialog{})
	s.dialogGen++
	s.filesChosen = false
	s.mu.Unlock()

	if s.opts.OnDialogOpen != nil {
		s.opts.OnDialogOpen()
	}

	handles, err := s.picker.Pick(ctx, picker.Options{
		Multiple: s.policy.Multiple,
		Accept:   s.policy.Accept,
	})
	switch {
	case errors.Is(err, picker.ErrDeferred):
		return
	case errors.Is(err, picker.ErrCancelled):
		s.dispatch(CloseDialog{})
		if s.opts.OnDialogCancel != nil {
			s.opts.OnDialogCancel()
		}
	case err != nil:
		s.dispatch(CloseDialog{})
		s.reportError(err)
	default:
		s.chooseFiles(ctx, handles)
	}
}

// InputChanged handles a selection delivered by a deferred picker.
func (s *Session) InputChanged(ctx context.Context, handles []picker.Handle) {
	if s.opts.Disabled {
		return
	}
	s.chooseFiles(ctx, handles)
}

// WindowFocus reports that the window got focus back. For pickers that do
// not report dismissal, a dialog still open after the grace period with no
// files chosen is considered cancelled.
func (s *Session) WindowFocus() {
	if s.opts.Disabled || s.picker.ReportsCancel() {
		return
	}
	s.mu.Lock()
	if !s.state.DialogOpen {
		s.mu.Unlock()
		return
	}
	gen := s.dialogGen
	s.mu.Unlock()

	time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		if !s.state.DialogOpen || s.dialogGen != gen || s.filesChosen {
			s.mu.Unlock()
			return
		}
		s.apply(CloseDialog{})
		s.mu.Unlock()
		tool.DefaultLogger.Debugf("[Session %s] Dialog dismissed", s.id)
		if s.opts.OnDialogCancel != nil {
			s.opts.OnDialogCancel()
		}
	})
}

func (s *Session) Focus() {
	if s.opts.Disabled {
		return
	}
	s.dispatch(Focus{})
}

func (s *Session) Blur() {
	if s.opts.Disabled {
		return
	}
	s.dispatch(Blur{})
}

// Reset returns the session to its initial state. A selection still waiting
// for its destinations when Reset is called is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	s.apply(Reset{})
}

func (s *Session) chooseFiles(ctx context.Context, handles []picker.Handle) {
	s.mu.Lock()
	s.filesChosen = true
	resets := s.resets
	s.mu.Unlock()

	s.events.Lock()
	defer s.events.Unlock()

	update, err := s.setFiles(ctx, handles)
	if err != nil {
		s.reportError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resets != resets {
		tool.DefaultLogger.Debugf("[Session %s] Selection discarded, the session was reset", s.id)
		return
	}
	if update != nil {
		s.apply(*update)
	}
	s.apply(CloseDialog{})
}

// setFiles validates the chosen files and acquires their destinations. The
// returned event is nil when the files could not be read.
func (s *Session) setFiles(ctx context.Context, handles []picker.Handle) (*SetFiles, error) {
	files := make([]types.FileDescriptor, 0, len(handles))
	for _, h := range handles {
		desc, err := h.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("failed to read selected file: %w", err)
		}
		files = append(files, desc)
	}

	result := validate.Batch(files, s.policy)
	tool.DefaultLogger.Infof("[Session %s] %d accepted, %d rejected", s.id, len(result.Accepted), len(result.Rejections))

	var dest types.Destinations
	if len(result.Accepted) > 0 {
		specs := lo.Map(result.Accepted, func(f types.FileDescriptor, _ int) types.FileSpec {
			return f.Spec()
		})
		var err error
		dest, err = s.opts.Destinations.RequestDestinations(ctx, specs, s.opts.Folder, s.opts.FileAccess)
		if err != nil {
			s.reportError(err)
			dest = nil
		}
	}

	return &SetFiles{
		Accepted:     result.Accepted,
		Rejections:   result.Rejections,
		Destinations: dest,
	}, nil
}

// Upload transfers the accepted files of the current state. It returns
// ErrNoDestinations without sending anything when the destinations are
// missing. Accepted files the destination service returned nothing for are
// not sent, each is reported to OnUploadError with a *transfer.ContractError
// and the others are transferred. Every failure, skipped or not, ends up in
// the returned *transfer.TransferError.
func (s *Session) Upload(ctx context.Context) error {
	if s.opts.Disabled {
		return nil
	}
	snap := s.Snapshot()
	if snap.Destinations == nil {
		tool.DefaultLogger.Warnf("[Session %s] Upload requested without destinations", s.id)
		return ErrNoDestinations
	}

	ready, missing := lo.FilterReject(snap.AcceptedFiles, func(f types.FileDescriptor, _ int) bool {
		_, ok := snap.Destinations.Lookup(s.opts.Folder, f.Name)
		return ok
	})

	failed := &transfer.TransferError{Total: len(snap.AcceptedFiles)}
	for _, f := range missing {
		err := &transfer.ContractError{File: f.Name, Key: types.DestinationKey(s.opts.Folder, f.Name)}
		tool.DefaultLogger.Warnf("[Session %s] Skipping %s: %v", s.id, f.Name, err)
		failed.Failed = append(failed.Failed, f.Name)
		failed.Errs = append(failed.Errs, err)
		if s.opts.OnUploadError != nil {
			s.opts.OnUploadError(f, err)
		}
	}

	if len(ready) > 0 {
		uploader := s.opts.Uploader
		if uploader == nil {
			uploader = transfer.NewOrchestrator(nil, 0)
		}
		err := uploader.Transfer(ctx, ready, snap.Destinations, s.opts.Folder, transfer.Callbacks{
			OnProgress: s.opts.OnUploadProgress,
			OnSuccess:  s.opts.OnUploadSuccess,
			OnError:    s.opts.OnUploadError,
		})
		var transferErr *transfer.TransferError
		switch {
		case errors.As(err, &transferErr):
			failed.Failed = append(failed.Failed, transferErr.Failed...)
			failed.Errs = append(failed.Errs, transferErr.Errs...)
		case err != nil:
			return err
		}
	}

	if len(failed.Failed) > 0 {
		return failed
	}
	return nil
}

func (s *Session) reportError(err error) {
	if s.opts.OnError != nil {
		s.opts.OnError(err)
		return
	}
	tool.DefaultLogger.Errorf("[Session %s] %v", s.id, err)
}
