package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/tuner"
)

var _ = Describe("the step loop with a live neighbor list", func() {
	Context("on the tutorial lattice with per-step checks", func() {
		It("rebuilds as particles diffuse and never reports a dangerous build", func() {
			s, err := sim.FromConfig(config.GetPreset("tutorial"))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Run(context.Background(), 300)).To(Succeed())

			stats := s.PopStats()
			Expect(stats.NormalRebuilds).To(BeNumerically(">=", 1),
				"a thermostatted system must accumulate enough motion to go stale")
			Expect(stats.DangerousBuilds).To(BeZero(),
				"checking every step leaves no window for undetected staleness")
			Expect(stats.Neighbors.Mean).To(BeNumerically(">", 0))
			Expect(s.Temperature()).To(BeNumerically(">", 0))
		})
	})

	Context("on the dense thousand-particle lattice", func() {
		It("sustains a liquid-like neighbor count through the step loop", func() {
			s, err := sim.FromConfig(config.GetPreset("dense"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot().N()).To(Equal(1000))

			Expect(s.Run(context.Background(), 30)).To(Succeed())

			stats := s.PopStats()
			// r_search 2.9 at near-liquid density holds tens of
			// candidates per particle.
			Expect(stats.Neighbors.Mean).To(BeNumerically(">", 50))
			Expect(stats.DangerousBuilds).To(BeZero())
		})
	})

	Context("with a check period far beyond the safe rebuild interval", func() {
		It("flags dangerous builds instead of silently missing pairs", func() {
			cfg := config.GetPreset("tutorial")
			cfg.RBuff = 0.05
			cfg.CheckPeriod = 100
			cfg.KT = 1.0
			// Nearly ideal gas: the list goes stale without the
			// dynamics blowing up.
			cfg.Pairs[0].Epsilon = 1e-4

			s, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Run(context.Background(), 300)).To(Succeed())

			stats := s.PopStats()
			Expect(stats.DangerousBuilds).To(BeNumerically(">=", 1))
		})
	})

	Context("under each spatial index", func() {
		for _, kind := range []string{"cell", "stencil", "tree"} {
			kind := kind
			It("completes a short run with the "+kind+" index", func() {
				cfg := config.GetPreset("tutorial")
				cfg.Index = kind
				if kind == "stencil" {
					cfg.CellWidth = 1.0
				}

				s, err := sim.FromConfig(cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Run(context.Background(), 50)).To(Succeed())
				Expect(s.PopStats().Neighbors.Mean).To(BeNumerically(">", 0))
			})
		}
	})
})

var _ = Describe("tuning the buffer radius over a live simulator", func() {
	It("produces a report whose optimum lies on the sampled grid", func() {
		s, err := sim.FromConfig(config.GetPreset("tutorial"))
		Expect(err).NotTo(HaveOccurred())

		report, err := tuner.New(s).Tune(context.Background(), tuner.Params{
			RMin:         0.1,
			RMax:         0.6,
			Jumps:        3,
			WarmupSteps:  10,
			MeasureSteps: 30,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Interrupted).To(BeFalse())
		Expect(report.Samples).To(HaveLen(3))
		for _, sample := range report.Samples {
			Expect(sample.Throughput).To(BeNumerically(">", 0))
		}
		Expect(report.OptimalRBuff).To(And(
			BeNumerically(">=", 0.1),
			BeNumerically("<=", 0.6),
		))
		Expect(report.MaxCheckPeriod).To(BeNumerically(">=", 1))
	})
})
