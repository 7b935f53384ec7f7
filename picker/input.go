package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/moyoez/uploadkit/tool"
)

// InputPicker emulates a hidden file input: Pick only "clicks" it and
// returns ErrDeferred, the chosen paths arrive later through the bound
// delivery function. A dismissal is never reported; an empty answer only
// hands control back through refocus.
type InputPicker struct {
	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	reading bool
	deliver DeliverFunc
	refocus func()
}

func NewInputPicker(in io.Reader, out io.Writer) *InputPicker {
	return &InputPicker{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *InputPicker) Bind(deliver DeliverFunc, refocus func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliver = deliver
	p.refocus = refocus
}

func (p *InputPicker) Pick(ctx context.Context, opts Options) ([]Handle, error) {
	p.mu.Lock()
	if p.deliver == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("input picker used before being bound to a session")
	}
	if p.reading {
		// the previous click is still waiting for an answer
		p.mu.Unlock()
		return nil, ErrDeferred
	}
	p.reading = true
	deliver, refocus := p.deliver, p.refocus
	p.mu.Unlock()

	if p.out != nil {
		_, _ = fmt.Fprint(p.out, promptText(opts))
	}

	go func() {
		line, err := p.reader.ReadString('\n')
		p.mu.Lock()
		p.reading = false
		p.mu.Unlock()

		paths := strings.Fields(line)
		if err != nil && err != io.EOF {
			tool.DefaultLogger.Warnf("[Picker] Failed to read file input: %v", err)
		}
		if len(paths) == 0 {
			if refocus != nil {
				refocus()
			}
			return
		}
		deliver(ctx, pathHandles(paths))
	}()
	return nil, ErrDeferred
}

func (p *InputPicker) ReportsCancel() bool {
	return false
}
