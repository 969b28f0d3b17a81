package nabla

import "fmt"

// Shape is the number of samples along x, y and z.
type Shape [3]int

func (s Shape) Len() int { return s[0] * s[1] * s[2] }

func (s Shape) stride(axis int) int {
	switch axis {
	case 0:
		return s[1] * s[2]
	case 1:
		return s[2]
	default:
		return 1
	}
}

func (s Shape) check(fs ...[]float64) error {
	for _, f := range fs {
		if len(f) != s.Len() {
			return fmt.Errorf("nabla: data length %d does not match shape %v", len(f), s)
		}
	}
	return nil
}

// Unit is unit spacing along all axes.
var Unit = [3]float64{1, 1, 1}

// Derivative differentiates f along axis. Axes with a single sample have a
// zero derivative.
func Derivative(f []float64, shape Shape, spacing [3]float64, axis int) ([]float64, error) {
	if err := shape.check(f); err != nil {
		return nil, err
	}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("nabla: axis %d out of range", axis)
	}
	out := make([]float64, len(f))
	n := shape[axis]
	if n < 2 {
		return out, nil
	}
	h := spacing[axis]
	stride := shape.stride(axis)
	for idx := range f {
		pos := (idx / stride) % n
		switch pos {
		case 0:
			out[idx] = (f[idx+stride] - f[idx]) / h
		case n - 1:
			out[idx] = (f[idx] - f[idx-stride]) / h
		default:
			out[idx] = (f[idx+stride] - f[idx-stride]) / (2 * h)
		}
	}
	return out, nil
}

// Gradient returns (df/dx, df/dy, df/dz).
func Gradient(f []float64, shape Shape, spacing [3]float64) (gx, gy, gz []float64, err error) {
	if gx, err = Derivative(f, shape, spacing, 0); err != nil {
		return nil, nil, nil, err
	}
	if gy, err = Derivative(f, shape, spacing, 1); err != nil {
		return nil, nil, nil, err
	}
	if gz, err = Derivative(f, shape, spacing, 2); err != nil {
		return nil, nil, nil, err
	}
	return gx, gy, gz, nil
}

// Curl returns (dFz/dy - dFy/dz, dFx/dz - dFz/dx, dFy/dx - dFx/dy).
func Curl(fx, fy, fz []float64, shape Shape, spacing [3]float64) (rx, ry, rz []float64, err error) {
	if err := shape.check(fx, fy, fz); err != nil {
		return nil, nil, nil, err
	}
	d := func(f []float64, axis int) []float64 {
		out, _ := Derivative(f, shape, spacing, axis)
		return out
	}
	dzdy, dydz := d(fz, 1), d(fy, 2)
	dxdz, dzdx := d(fx, 2), d(fz, 0)
	dydx, dxdy := d(fy, 0), d(fx, 1)

	n := shape.Len()
	rx, ry, rz = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		rx[i] = dzdy[i] - dydz[i]
		ry[i] = dxdz[i] - dzdx[i]
		rz[i] = dydx[i] - dxdy[i]
	}
	return rx, ry, rz, nil
}

// Divergence returns dFx/dx + dFy/dy + dFz/dz.
func Divergence(fx, fy, fz []float64, shape Shape, spacing [3]float64) ([]float64, error) {
	if err := shape.check(fx, fy, fz); err != nil {
		return nil, err
	}
	out, _ := Derivative(fx, shape, spacing, 0)
	dy, _ := Derivative(fy, shape, spacing, 1)
	dz, _ := Derivative(fz, shape, spacing, 2)
	for i := range out {
		out[i] += dy[i] + dz[i]
	}
	return out, nil
}
