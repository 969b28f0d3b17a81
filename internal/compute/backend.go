package compute

import (
	"context"
	"runtime"
	"strings"
	"sync"
)

// ChunkFunc processes the half-open index range [start, end).
type ChunkFunc func(start, end int) error

type Backend interface {
	Name() string
	Workers() int
	// ParallelFor runs fn over [0, n) in chunks of at least minChunk
	// indices. It returns the first error from any chunk, or ctx.Err().
	ParallelFor(ctx context.Context, n, minChunk int, fn ChunkFunc) error
}

var (
	mu            sync.RWMutex
	activeBackend Backend
)

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	activeBackend = b
}

func GetBackend() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return activeBackend
}

func AutoSelectBackend() Backend {
	if runtime.NumCPU() > 1 {
		return NewCPUBackend()
	}
	return NewSerialBackend()
}

// BackendByName returns "cpu", "serial", or the auto-selected backend for
// the empty string. Unknown names fall back to auto selection.
func BackendByName(name string) Backend {
	switch strings.ToLower(name) {
	case "cpu":
		return NewCPUBackend()
	case "serial":
		return NewSerialBackend()
	}
	return AutoSelectBackend()
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }
func (s *SerialBackend) Workers() int { return 1 }

func (s *SerialBackend) ParallelFor(ctx context.Context, n, _ int, fn ChunkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}
	return fn(0, n)
}
