// Package nabla implements the differential operators used on fields.
//
// Two strategies coexist. The grid operators ([Gradient], [Curl],
// [Divergence]) differentiate a sampled field with second-order central
// differences in the interior and first-order one-sided differences at the
// boundary. The pointwise operators ([GradientAt], [CurlAt], [DivergenceAt])
// differentiate a closed-form field directly at a single point with a
// central difference of fixed step.
//
// Grid data is flattened row-major with x outermost:
// idx = (i*ny + j)*nz + k.
package nabla
