package flight_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/aquasim/internal/aero"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/sim"
)

// constantBurn builds a profile with fixed thrust and linearly falling fuel.
func constantBurn(n int, thrust, fuel, dt float64) *propulsion.Profile {
	p := &propulsion.Profile{Dt: dt, TransitionIndex: -1}
	for i := 0; i < n; i++ {
		p.Samples = append(p.Samples, propulsion.ThrustSample{
			Time:           float64(i+1) * dt,
			Thrust:         thrust,
			PropellantMass: fuel * float64(n-i-1) / float64(n),
		})
	}
	return p
}

type countingMetric struct {
	n int
}

func (c *countingMetric) Name() string                    { return "count" }
func (c *countingMetric) Observe(flight.TrajectoryPoint) { c.n++ }
func (c *countingMetric) Value() float64                  { return float64(c.n) }
func (c *countingMetric) Reset()                          { c.n = 0 }

var _ = Describe("Integrator", func() {
	var (
		profile *propulsion.Profile
		table   *aero.DragTable
		rocket  flight.Rocket
		cfg     flight.Config
	)

	BeforeEach(func() {
		profile = constantBurn(20, 50, 0.4, 0.01)
		table = aero.Default()
		rocket = flight.Rocket{StructuralMass: 0.5, PayloadMass: 0.1, FrontalArea: 0.005}
		cfg = flight.DefaultConfig()
	})

	run := func() *flight.Result {
		res, err := flight.New(profile, table, rocket, cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Context("with a short constant burn", func() {
		It("advances time by a constant step", func() {
			res := run()
			Expect(res.Points).NotTo(BeEmpty())
			for i, p := range res.Points {
				Expect(p.Time).To(BeNumerically("~", float64(i+1)*cfg.Dt, 1e-9))
			}
			Expect(res.Steps).To(Equal(len(res.Points)))
		})

		It("terminates at the first descending point", func() {
			res := run()
			n := len(res.Points)
			Expect(n).To(BeNumerically(">", 2))

			for i, p := range res.Points[:n-1] {
				Expect(p.Comment).NotTo(Equal(flight.CommentApogee))
				if i > 0 {
					Expect(p.Y).To(BeNumerically(">=", res.Points[i-1].Y))
				}
			}

			last := res.Points[n-1]
			Expect(last.Comment).To(Equal(flight.CommentApogee))
			Expect(last.Y).To(BeNumerically("<", res.Points[n-2].Y))
			Expect(res.Apogee).To(Equal(last))
			Expect(res.Highest()).To(Equal(res.Points[n-2]))
		})

		It("marks burnout on the first point past the burn time", func() {
			res := run()
			Expect(res.Burnout).NotTo(BeNil())
			Expect(res.Burnout.Comment).To(Equal(flight.CommentBurnout))
			Expect(res.Burnout.Time).To(BeNumerically(">", profile.BurnTime()))
			Expect(res.Burnout.Time - cfg.Dt).To(BeNumerically("<=", profile.BurnTime()+1e-12))

			for _, p := range res.Points {
				if p.Time > profile.BurnTime() {
					Expect(p.Thrust).To(BeZero())
					Expect(p.Mass).To(BeNumerically("~", rocket.DryMass(), 1e-12))
				} else {
					Expect(p.Thrust).To(Equal(50.0))
				}
			}
		})

		It("keeps the rocket on the vertical axis", func() {
			for _, p := range run().Points {
				Expect(p.X).To(BeZero())
			}
		})

		It("adds fuel mass to the dry mass", func() {
			res := run()
			first := res.Points[0]
			Expect(first.Mass).To(BeNumerically("~", profile.Samples[0].PropellantMass+rocket.DryMass(), 1e-12))
		})

		It("records mach from the previous velocity", func() {
			res := run()
			Expect(res.Points[0].Mach).To(BeZero())
			for i := 1; i < len(res.Points); i++ {
				Expect(res.Points[i].Mach).To(BeNumerically("~", res.Points[i-1].Velocity/cfg.SpeedOfSound, 1e-15))
			}
		})

		It("is deterministic", func() {
			Expect(run()).To(Equal(run()))
		})

		It("feeds every point to the metrics", func() {
			m := &countingMetric{}
			integ := flight.New(profile, table, rocket, cfg)
			integ.AddMetric(m)

			res, err := integ.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKeyWithValue("count", float64(len(res.Points))))
		})
	})

	Context("with no thrust", func() {
		It("reaches apogee on the first step", func() {
			profile = &propulsion.Profile{Dt: 0.01, TransitionIndex: -1}
			res := run()
			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Comment).To(Equal(flight.CommentApogee))
			Expect(res.Points[0].Acceleration).To(BeNumerically("~", -cfg.GravityTerm/rocket.DryMass(), 1e-12))
		})
	})

	Context("with an empty drag table", func() {
		It("applies only the gravity term", func() {
			table = aero.New()
			res := run()
			for _, p := range res.Points {
				Expect(p.Drag).To(BeZero())
			}
		})
	})

	Context("with drag", func() {
		It("flies lower than without drag", func() {
			cfg.AirDensity = 1.225
			withDrag := run().Highest().Y

			table = aero.New()
			withoutDrag := run().Highest().Y

			Expect(withDrag).To(BeNumerically("<", withoutDrag))
			Expect(math.IsNaN(withDrag)).To(BeFalse())
		})
	})

	Context("with a step budget", func() {
		It("fails when apogee is not reached in time", func() {
			cfg.MaxSteps = 5
			res, err := flight.New(profile, table, rocket, cfg).Run(context.Background())
			Expect(err).To(MatchError(sim.ErrNonTerminating))

			var serr *sim.SimError
			Expect(err).To(BeAssignableToTypeOf(serr))
			Expect(res.Points).To(HaveLen(5))
		})
	})

	Context("with invalid input", func() {
		It("rejects a massless rocket", func() {
			rocket = flight.Rocket{FrontalArea: 0.01}
			_, err := flight.New(profile, table, rocket, cfg).Run(context.Background())
			Expect(err).To(MatchError(sim.ErrInvalidConfig))
		})

		It("rejects a non-positive step", func() {
			cfg.Dt = 0
			_, err := flight.New(profile, table, rocket, cfg).Run(context.Background())
			Expect(err).To(MatchError(sim.ErrInvalidConfig))
		})
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := flight.New(profile, table, rocket, cfg).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
