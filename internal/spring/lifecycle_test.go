package spring_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

var _ = Describe("Spring", func() {
	var (
		s      *spring.Spring
		events []string
	)

	build := func(value, target dynamo.Value) *spring.Spring {
		opts := spring.DefaultOptions()
		opts.Value, opts.Target = value, target
		opts.OnStart = func(dynamo.Value, *spring.Spring) { events = append(events, "start") }
		opts.OnRest = func(dynamo.Value, *spring.Spring) { events = append(events, "rest") }
		opts.OnComplete = func(dynamo.Value, *spring.Spring) { events = append(events, "complete") }
		sp, err := spring.New(opts)
		Expect(err).NotTo(HaveOccurred())
		return sp
	}

	settle := func(sp *spring.Spring) {
		for i := 0; i < 2000 && !sp.Resting(); i++ {
			sp.TickBy(1.0 / 60)
		}
	}

	BeforeEach(func() {
		events = nil
		s = build(dynamo.Scalar(0), dynamo.Scalar(100))
	})

	Context("when idle", func() {
		It("rests at its start value", func() {
			Expect(s.Resting()).To(BeTrue())
			Expect(s.RestingAtStart()).To(BeTrue())
			Expect(s.Value().Float()).To(Equal(0.0))
		})

		It("ignores ticks", func() {
			s.TickBy(1)
			Expect(s.Position()).To(Equal(0.0))
			Expect(events).To(BeEmpty())
		})
	})

	Context("when started", func() {
		BeforeEach(func() {
			s.Start()
		})

		It("fires OnStart once per Start", func() {
			Expect(events).To(Equal([]string{"start"}))
		})

		It("settles exactly on the target", func() {
			settle(s)
			Expect(s.Resting()).To(BeTrue())
			Expect(s.Value().Float()).To(Equal(100.0))
			Expect(s.Velocity()).To(BeZero())
			Expect(events).To(Equal([]string{"start", "rest", "complete"}))
		})

		It("keeps velocity across Pause and Start", func() {
			s.TickBy(0.05)
			v := s.Velocity()
			s.Pause()
			Expect(s.Velocity()).To(Equal(v))
			s.Start()
			Expect(s.Velocity()).To(Equal(v))
			Expect(events).To(Equal([]string{"start", "rest", "start"}))
		})

		It("zeroes velocity on Stop", func() {
			s.TickBy(0.05)
			s.Stop()
			Expect(s.Velocity()).To(BeZero())
			Expect(s.Position()).To(BeNumerically(">", 0))
			Expect(s.Position()).To(BeNumerically("<", 100))
		})

		It("follows a new target without restarting", func() {
			s.TickBy(0.1)
			Expect(s.SetTarget(dynamo.Scalar(-50))).To(Succeed())
			Expect(s.Resting()).To(BeFalse())
			settle(s)
			Expect(s.Value().Float()).To(Equal(-50.0))
		})
	})

	Context("when completed early", func() {
		It("snaps and reports completion once", func() {
			s.Start().TickBy(0.02)
			s.Complete().Complete()
			Expect(s.Value().Float()).To(Equal(100.0))
			Expect(events).To(Equal([]string{"start", "rest", "complete"}))
		})
	})

	Context("with vector values", func() {
		BeforeEach(func() {
			s = build(dynamo.Vector(0, 0, 0), dynamo.Vector(3, 6, 9))
		})

		It("moves every component in proportion", func() {
			s.Start().TickBy(0.1)
			v := s.Value()
			Expect(v.Len()).To(Equal(3))
			Expect(v.At(1)).To(BeNumerically("~", 2*v.At(0), 1e-9))
			Expect(v.At(2)).To(BeNumerically("~", 3*v.At(0), 1e-9))
		})

		It("ends on the exact target vector", func() {
			s.Start()
			settle(s)
			Expect(s.Value().Slice()).To(Equal([]float64{3, 6, 9}))
		})

		It("rejects a target of another arity", func() {
			err := s.SetTarget(dynamo.Vector(1, 2))
			Expect(err).To(MatchError(dynamo.ErrShapeMismatch))
		})
	})
})
