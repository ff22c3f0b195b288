package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

func crowdedWorld(seed uint32, mutate func(*dynamo.Config)) *sim.World {
	cfg := dynamo.DefaultConfig()
	cfg.Width, cfg.Height = 300, 200
	cfg.MaxParticleCount = 60
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := sim.New(cfg, sim.WithSeed(seed))
	Expect(err).NotTo(HaveOccurred())
	for i := 0; i < 4; i++ {
		w.Spawn(-1, -1, dynamo.AnyKind)
	}
	return w
}

var _ = Describe("World", func() {
	Describe("bonds", func() {
		It("stay mutual across many ticks", func() {
			for _, seed := range []uint32{1, 7, 2024} {
				w := crowdedWorld(seed, nil)
				for tick := 0; tick < 300; tick++ {
					_, err := w.Tick(1.0 / 60)
					Expect(err).NotTo(HaveOccurred())
					Expect(w.Pool().Validate()).To(Succeed())
				}
			}
		})

		It("never rebond a bonded particle", func() {
			w := crowdedWorld(3, nil)
			partners := map[int]dynamo.Ref{}
			for tick := 0; tick < 200; tick++ {
				_, _ = w.Tick(1.0 / 60)
				for i, p := range w.Pool().Particles() {
					if prev, ok := partners[i]; ok {
						Expect(p.BondingWith).To(Equal(prev), "particle %d changed partner", i)
					} else if p.Bonded() {
						partners[i] = p.BondingWith
					}
				}
			}
		})
	})

	Describe("memory budget", func() {
		It("is never exceeded by repeated spawning", func() {
			w := crowdedWorld(11, func(c *dynamo.Config) {
				c.MemoryBudget = dynamo.RecordSize * 150
			})
			for i := 0; i < 100; i++ {
				w.Spawn(-1, -1, dynamo.AnyKind)
				Expect(w.Bytes()).To(BeNumerically("<=", w.Config().MemoryBudget))
			}
			Expect(w.Stats().Rejected).To(BeNumerically(">", 0))
		})
	})

	Describe("spawning", func() {
		It("places explicit positions exactly", func() {
			w := crowdedWorld(5, nil)
			w.Reset()
			for w.Len() == 0 {
				w.Spawn(42.5, 17.25, dynamo.AnyKind)
			}
			for s := range w.Snapshot() {
				Expect(s.X).To(Equal(42.5))
				Expect(s.Y).To(Equal(17.25))
			}
		})

		It("is reproducible for a seed", func() {
			a, b := crowdedWorld(99, nil), crowdedWorld(99, nil)
			for i := 0; i < 50; i++ {
				_, _ = a.Tick(0.02)
				_, _ = b.Tick(0.02)
			}
			Expect(a.Pool().Particles()).To(Equal(b.Pool().Particles()))
		})
	})

	Describe("snapshot", func() {
		It("can be ranged over twice", func() {
			w := crowdedWorld(8, nil)
			count := func() int {
				n := 0
				for range w.Snapshot() {
					n++
				}
				return n
			}
			Expect(count()).To(Equal(w.Len()))
			Expect(count()).To(Equal(w.Len()))
		})

		It("is empty after reset", func() {
			w := crowdedWorld(8, nil)
			w.Reset()
			for range w.Snapshot() {
				Fail("snapshot yielded a sprite after reset")
			}
			Expect(w.Len()).To(BeZero())
		})
	})

	Describe("kinematics", func() {
		It("preserve speed without friction or contacts", func() {
			cfg := dynamo.DefaultConfig()
			cfg.ParticleCollision = false
			cfg.BorderCollision = false
			w, err := sim.New(cfg, sim.WithSeed(21))
			Expect(err).NotTo(HaveOccurred())
			for w.Len() == 0 {
				w.Spawn(-1, -1, dynamo.AnyKind)
			}

			speeds := make([]float64, w.Len())
			for i, p := range w.Pool().Particles() {
				speeds[i] = r2.Norm(p.Vel)
			}
			for i := 0; i < 100; i++ {
				_, _ = w.Tick(0.016)
			}
			for i, p := range w.Pool().Particles() {
				Expect(r2.Norm(p.Vel)).To(BeNumerically("~", speeds[i], 1e-9))
			}
		})

		It("keep clamped particles inside the world", func() {
			w := crowdedWorld(13, nil)
			for i := 0; i < 500; i++ {
				_, _ = w.Tick(1.0 / 30)
			}
			cfg := w.Config()
			for _, p := range w.Pool().Particles() {
				r := p.Radius()
				Expect(p.Pos.X).To(BeNumerically(">=", math.Min(r, cfg.Width-r)-1e-9))
				Expect(p.Pos.X).To(BeNumerically("<=", math.Max(cfg.Width-r, r)+1e-9))
				Expect(p.Pos.Y).To(BeNumerically(">=", math.Min(r, cfg.Height-r)-1e-9))
				Expect(p.Pos.Y).To(BeNumerically("<=", math.Max(cfg.Height-r, r)+1e-9))
			}
		})
	})
})
