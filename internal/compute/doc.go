// Package compute provides the execution backends for grid evaluation.
//
// Grid points are independent, so the engine splits the flattened index
// range into contiguous chunks and hands each chunk to one worker:
//
//   - CPU: one goroutine per logical CPU
//   - Serial: a single goroutine, useful for reproducible profiling
//
// The active backend is selected once at start-up:
//
//	backend := compute.GetBackend()
//	err := backend.ParallelFor(ctx, n, 64, func(start, end int) error { ... })
//
// Each worker owns a disjoint index range. Callers must not share mutable
// state between chunks.
package compute
