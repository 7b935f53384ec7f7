// Package selection keeps the state of one file selection surface: dialog
// visibility, focus, the last validated batch and its destinations.
package selection

import "github.com/moyoez/uploadkit/types"

// Event is applied to a state by Reduce.
type Event interface {
	event()
}

type (
	Focus       struct{}
	Blur        struct{}
	OpenDialog  struct{}
	CloseDialog struct{}
	Reset       struct{}
	// SetFiles replaces the accepted and rejected files of the state.
	// Destinations is nil when none could be acquired.
	SetFiles struct {
		Accepted     []types.FileDescriptor
		Rejections   []types.RejectionRecord
		Destinations types.Destinations
	}
)

func (Focus) event()       {}
func (Blur) event()        {}
func (OpenDialog) event()  {}
func (CloseDialog) event() {}
func (Reset) event()       {}
func (SetFiles) event()    {}
