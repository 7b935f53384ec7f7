package picker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptFunc asks for paths. An empty result means the user dismissed.
type PromptFunc func(ctx context.Context, opts Options) ([]string, error)

// PathPicker blocks until the user chose files or dismissed the prompt.
type PathPicker struct {
	prompt PromptFunc
}

func NewPathPicker(prompt PromptFunc) *PathPicker {
	return &PathPicker{prompt: prompt}
}

// NewStaticPicker answers every pick with the same paths, typically taken
// from the command line.
func NewStaticPicker(paths ...string) *PathPicker {
	return NewPathPicker(func(context.Context, Options) ([]string, error) {
		return paths, nil
	})
}

// NewTerminalPicker prompts on out and reads one line of paths from in.
// An empty line or end of input dismisses the picker.
func NewTerminalPicker(in io.Reader, out io.Writer) *PathPicker {
	reader := bufio.NewReader(in)
	return NewPathPicker(func(ctx context.Context, opts Options) ([]string, error) {
		if _, err := fmt.Fprint(out, promptText(opts)); err != nil {
			return nil, err
		}
		line, err := readLine(ctx, reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return strings.Fields(line), nil
	})
}

func (p *PathPicker) Pick(ctx context.Context, opts Options) ([]Handle, error) {
	paths, err := p.prompt(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("file picker failed: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrCancelled
	}
	return pathHandles(paths), nil
}

func (p *PathPicker) ReportsCancel() bool {
	return true
}

func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := reader.ReadString('\n')
		done <- result{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.line, r.err
	}
}
