package picker

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/moyoez/uploadkit/tool"
)

// Detect chooses the picker strategy once, from the platform capabilities:
// an interactive terminal gets the blocking chooser, anything else the
// deferred input.
func Detect(useFsAccessApi bool, in *os.File, out io.Writer) Picker {
	if useFsAccessApi && term.IsTerminal(int(in.Fd())) {
		tool.DefaultLogger.Debugf("[Picker] Using terminal picker")
		return NewTerminalPicker(in, out)
	}
	tool.DefaultLogger.Debugf("[Picker] Using deferred input picker")
	return NewInputPicker(in, out)
}
