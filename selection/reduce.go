package selection

import (
	"maps"
	"slices"

	"github.com/moyoez/uploadkit/types"
)

func InitialState() types.SelectionState {
	return types.SelectionState{
		AcceptedFiles: []types.FileDescriptor{},
		Rejections:    []types.RejectionRecord{},
	}
}

// Reduce returns the state after event. The input state is never modified.
func Reduce(state types.SelectionState, event Event) types.SelectionState {
	switch e := event.(type) {
	case Focus:
		state.Focused = true
	case Blur:
		state.Focused = false
	case OpenDialog:
		state.DialogOpen = true
	case CloseDialog:
		state.DialogOpen = false
	case SetFiles:
		state.AcceptedFiles = cloneOrEmpty(e.Accepted)
		state.Rejections = cloneOrEmpty(e.Rejections)
		state.Destinations = maps.Clone(e.Destinations)
	case Reset:
		return InitialState()
	}
	return state
}

// Clone copies the slices and the map of a state.
func Clone(state types.SelectionState) types.SelectionState {
	state.AcceptedFiles = cloneOrEmpty(state.AcceptedFiles)
	state.Rejections = cloneOrEmpty(state.Rejections)
	state.Destinations = maps.Clone(state.Destinations)
	return state
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
