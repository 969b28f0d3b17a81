// Package grid builds coordinate meshes and superposes emitter fields on
// them.
//
// A [Grid] samples a bounding box at a fixed resolution per axis. A plane
// grid pins one axis to a single value. Samples are flattened with x
// outermost, idx = (i*ny + j)*nz + k, matching package nabla.
//
// The [Engine] evaluates a quantity for every emitter at every grid point,
// sums the real parts, optionally applies a differential operator, and
// returns a [Sampled] field. Cells where any emitter is singular are
// masked rather than aborting the evaluation.
package grid
