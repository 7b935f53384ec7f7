package tool

import (
	"io"
	"sync/atomic"
)

// ProgressFunc receives the cumulative bytes read and the expected total.
type ProgressFunc func(sent, total int64)

// ProgressReader wraps an io.Reader to report progress on every read.
type ProgressReader struct {
	reader   io.Reader
	total    int64
	current  atomic.Int64
	onUpdate ProgressFunc
}

func NewProgressReader(reader io.Reader, total int64, onUpdate ProgressFunc) *ProgressReader {
	return &ProgressReader{
		reader:   reader,
		total:    total,
		onUpdate: onUpdate,
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		current := pr.current.Add(int64(n))
		if pr.onUpdate != nil {
			pr.onUpdate(current, pr.total)
		}
	}
	return n, err
}

// Sent returns the bytes read so far.
func (pr *ProgressReader) Sent() int64 {
	return pr.current.Load()
}
