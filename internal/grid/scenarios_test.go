package grid_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/emfield/internal/emitters"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ = Describe("Field scenarios", func() {
	var (
		ctx    context.Context
		engine *grid.Engine
		si     field.Constants
	)

	BeforeEach(func() {
		ctx = context.Background()
		engine = grid.NewEngine()
		si = field.SI()
	})

	Describe("electric quadrupole", func() {
		It("is antisymmetric under a quarter turn", func() {
			var ems []field.Emitter
			for _, c := range []struct{ q, x, y float64 }{
				{-1, -1, 1}, {1, 1, 1}, {1, -1, -1}, {-1, 1, -1},
			} {
				pc, err := emitters.NewPointCharge(si, c.q, r3.Vec{X: c.x, Y: c.y})
				Expect(err).NotTo(HaveOccurred())
				ems = append(ems, pc)
			}
			g, err := grid.NewPlane(grid.Cube(5), 20, field.AxisZ, 0)
			Expect(err).NotTo(HaveOccurred())

			phi, err := engine.Evaluate(ctx, g, ems, grid.Request{Quantity: field.Potential})
			Expect(err).NotTo(HaveOccurred())
			Expect(phi.SingularCount()).To(BeZero())

			at := func(i, j int) float64 { return phi.X[g.Index(i, j, 0)] }
			for i := 0; i < 20; i++ {
				for j := 0; j < 20; j++ {
					Expect(at(19-j, i)).To(BeNumerically("~", -at(i, j), 1e-9*math.Abs(at(i, j))+1e-6))
				}
			}
		})
	})

	Describe("circular current loop in the yz-plane", func() {
		It("matches the on-axis field", func() {
			loop, err := emitters.NewCurrentLoop(si, 1, r3.Vec{}, 1, 50, field.AxisX)
			Expect(err).NotTo(HaveOccurred())

			b := grid.Bounds{X: grid.Range{Min: -3, Max: 3}, Y: grid.Range{Min: -0.5, Max: 0.5}}
			g, err := grid.NewPlane(b, 13, field.AxisZ, 0)
			Expect(err).NotTo(HaveOccurred())

			bf, err := engine.Evaluate(ctx, g, []field.Emitter{loop}, grid.Request{Quantity: field.MagneticB})
			Expect(err).NotTo(HaveOccurred())

			for i, x := range g.Coords(field.AxisX) {
				want := si.Mu0 / (2 * math.Pow(1+x*x, 1.5))
				got := bf.X[g.Index(i, 6, 0)]
				Expect(got).To(BeNumerically("~", want, 0.02*want), "x = %g", x)
			}
		})
	})

	Describe("Hertzian dipole at 500 MHz", func() {
		var d *emitters.Dipole

		BeforeEach(func() {
			var err error
			d, err = emitters.NewDipole(si, emitters.DipoleSpec{Frequency: 500e6, Power: 1})
			Expect(err).NotTo(HaveOccurred())
		})

		It("derives wavelength and period", func() {
			Expect(d.Wavelength()).To(Equal(si.C / 500e6))
			Expect(d.Period()).To(BeNumerically("~", 2e-9, 1e-24))
		})

		It("radiates outward in the far zone", func() {
			p := r3.Vec{X: 10 * d.Wavelength()}
			s, err := field.EvaluateReal(d, field.Poynting, p, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(r3.Dot(s, r3.Unit(p))).To(BeNumerically(">", 0))
		})

		It("repeats after one period on a grid", func() {
			lambda := d.Wavelength()
			g, err := grid.NewPlane(grid.Cube(2*lambda), 9, field.AxisZ, 0.1*lambda)
			Expect(err).NotTo(HaveOccurred())

			ems := []field.Emitter{d}
			e0, err := engine.Evaluate(ctx, g, ems, grid.Request{Quantity: field.Electric, Time: 0.4e-9})
			Expect(err).NotTo(HaveOccurred())
			e1, err := engine.Evaluate(ctx, g, ems, grid.Request{Quantity: field.Electric, Time: 0.4e-9 + d.Period()})
			Expect(err).NotTo(HaveOccurred())

			for i := range e0.X {
				v0, v1 := e0.At(i), e1.At(i)
				Expect(r3.Norm(r3.Sub(v0, v1))).To(BeNumerically("<=", 1e-9*r3.Norm(v0)))
			}
		})
	})

	Describe("antenna in the dipole limit", func() {
		It("reproduces the dipole on a grid", func() {
			spec := emitters.AntennaSpec{Frequency: 1e9, Power: 1}
			a, err := emitters.NewAntenna(si, spec)
			Expect(err).NotTo(HaveOccurred())
			d, err := emitters.NewDipole(si, emitters.DipoleSpec{Frequency: 1e9, Power: 1})
			Expect(err).NotTo(HaveOccurred())

			g, err := grid.NewPlane(grid.Cube(1), 8, field.AxisY, 0)
			Expect(err).NotTo(HaveOccurred())
			req := grid.Request{Quantity: field.VectorPotential, Derive: grid.DeriveCurl, Time: 0.1e-9}
			sa, err := engine.Evaluate(ctx, g, []field.Emitter{a}, req)
			Expect(err).NotTo(HaveOccurred())
			sd, err := engine.Evaluate(ctx, g, []field.Emitter{d}, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(sa.X).To(Equal(sd.X))
			Expect(sa.Z).To(Equal(sd.Z))
		})
	})
})
