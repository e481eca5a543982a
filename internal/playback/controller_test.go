package playback_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mathviz/internal/playback"
	"github.com/san-kum/mathviz/internal/walk"
)

type countingSim struct {
	walk.Simulation
	calls int
}

func (s *countingSim) Step() bool {
	s.calls++
	return s.Simulation.Step()
}

// leakyScheduler ignores cancellation so stale frames still fire.
type leakyScheduler struct {
	seq playback.FrameID
	fns []func()
}

func (l *leakyScheduler) RequestFrame(fn func()) playback.FrameID {
	l.seq++
	l.fns = append(l.fns, fn)
	return l.seq
}

func (l *leakyScheduler) CancelFrame(playback.FrameID) {}

func (l *leakyScheduler) fireAll() {
	fns := l.fns
	l.fns = nil
	for _, fn := range fns {
		fn()
	}
}

var _ = Describe("Controller", func() {
	var (
		sim   *countingSim
		queue *playback.FrameQueue
		ctrl  *playback.Controller
	)

	BeforeEach(func() {
		sim = &countingSim{Simulation: walk.NewLine(walk.NewSource(1))}
		Expect(sim.Initialize(walk.Params{MaxSteps: 5, SampleSize: 3})).To(Succeed())
		queue = playback.NewFrameQueue()
		ctrl = playback.New(sim, queue)
	})

	It("starts stopped with nothing scheduled", func() {
		Expect(ctrl.State()).To(Equal(playback.Stopped))
		Expect(queue.Pending()).To(BeZero())
	})

	It("runs one step per frame while playing", func() {
		ctrl.Start()
		Expect(ctrl.Playing()).To(BeTrue())
		Expect(queue.Pending()).To(Equal(1))

		queue.Flush()
		Expect(sim.Steps()).To(Equal(1))
		queue.Flush()
		Expect(sim.Steps()).To(Equal(2))
		Expect(queue.Pending()).To(Equal(1))
	})

	It("ignores Start while already playing", func() {
		ctrl.Start()
		ctrl.Start()
		Expect(queue.Pending()).To(Equal(1))
		queue.Flush()
		Expect(sim.Steps()).To(Equal(1))
	})

	It("stops by itself at the step limit", func() {
		ctrl.Start()
		for i := 0; i < 5; i++ {
			queue.Flush()
		}
		Expect(sim.Steps()).To(Equal(5))
		Expect(ctrl.Playing()).To(BeTrue())

		queue.Flush()
		Expect(ctrl.State()).To(Equal(playback.Stopped))
		Expect(sim.Steps()).To(Equal(5))
		Expect(queue.Pending()).To(BeZero())
	})

	It("does not extend paths when started after the terminal state", func() {
		for sim.Step() {
		}
		history := sim.History()

		ctrl.Start()
		queue.Flush()

		Expect(ctrl.State()).To(Equal(playback.Stopped))
		Expect(sim.History()).To(HaveLen(len(history)))
		for _, tr := range sim.Traces() {
			Expect(tr).To(HaveLen(6))
		}
	})

	It("cancels the pending frame on Pause", func() {
		ctrl.Start()
		queue.Flush()
		calls := sim.calls

		ctrl.Pause()
		Expect(queue.Pending()).To(BeZero())
		queue.Flush()
		Expect(sim.calls).To(Equal(calls))
		Expect(ctrl.State()).To(Equal(playback.Stopped))
	})

	It("drops frames that fire after Pause even if the scheduler ignores cancel", func() {
		leaky := &leakyScheduler{}
		c := playback.New(sim, leaky)
		c.Start()
		c.Pause()
		leaky.fireAll()
		Expect(sim.calls).To(BeZero())
	})

	It("does not double step when restarted before a stale frame fires", func() {
		leaky := &leakyScheduler{}
		c := playback.New(sim, leaky)
		c.Start()
		c.Pause()
		c.Start()
		leaky.fireAll()
		Expect(sim.calls).To(Equal(1))
	})

	It("resets to step zero and stops", func() {
		ctrl.Start()
		queue.Flush()
		queue.Flush()

		Expect(ctrl.Reset()).To(Succeed())
		Expect(ctrl.State()).To(Equal(playback.Stopped))
		Expect(queue.Pending()).To(BeZero())
		Expect(sim.Steps()).To(BeZero())
		Expect(sim.History()).To(Equal(walk.StatHistory{{}}))
	})

	It("reconfigures with new parameters", func() {
		ctrl.Start()
		Expect(ctrl.Configure(walk.Params{MaxSteps: 20, SampleSize: 7})).To(Succeed())
		Expect(ctrl.Playing()).To(BeFalse())
		Expect(sim.Traces()).To(HaveLen(7))
		Expect(sim.Params().MaxSteps).To(Equal(20))
	})

	It("rejects invalid parameters and keeps the old run", func() {
		sim.Step()
		err := ctrl.Configure(walk.Params{MaxSteps: 0, SampleSize: 3})
		Expect(err).To(MatchError(walk.ErrInvalidParams))
		Expect(sim.Steps()).To(Equal(1))
	})

	It("cancels everything on Close", func() {
		ctrl.Start()
		ctrl.Close()
		Expect(queue.Pending()).To(BeZero())
		queue.Flush()
		Expect(sim.calls).To(BeZero())

		ctrl.Start()
		Expect(ctrl.Playing()).To(BeFalse())
		Expect(ctrl.StepOnce()).To(BeFalse())
	})

	It("steps once on demand", func() {
		Expect(ctrl.StepOnce()).To(BeTrue())
		Expect(sim.Steps()).To(Equal(1))
		Expect(ctrl.Playing()).To(BeFalse())
	})

	It("notifies observers after applied steps only", func() {
		var seen []int
		ctrl.AddObserver(playback.ObserverFunc(func(s walk.Simulation) {
			seen = append(seen, s.Steps())
		}))
		ctrl.Start()
		for i := 0; i < 8; i++ {
			queue.Flush()
		}
		Expect(seen).To(Equal([]int{1, 2, 3, 4, 5}))
	})

	It("lets an observer pause mid-playback", func() {
		ctrl.AddObserver(playback.ObserverFunc(func(s walk.Simulation) {
			if s.Steps() == 2 {
				ctrl.Pause()
			}
		}))
		ctrl.Start()
		for i := 0; i < 5; i++ {
			queue.Flush()
		}
		Expect(sim.Steps()).To(Equal(2))
		Expect(queue.Pending()).To(BeZero())
	})

	Describe("RunToCompletion", func() {
		It("plays until the step limit", func() {
			Expect(playback.RunToCompletion(context.Background(), ctrl, queue)).To(Succeed())
			Expect(sim.Steps()).To(Equal(5))
			Expect(ctrl.Playing()).To(BeFalse())
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := playback.RunToCompletion(ctx, ctrl, queue)
			Expect(err).To(MatchError(context.Canceled))
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(sim.Steps()).To(BeZero())
		})
	})
})

var _ = Describe("FrameQueue", func() {
	It("defers frames requested during a flush", func() {
		q := playback.NewFrameQueue()
		runs := 0
		var again func()
		again = func() {
			runs++
			q.RequestFrame(again)
		}
		q.RequestFrame(again)

		Expect(q.Flush()).To(Equal(1))
		Expect(runs).To(Equal(1))
		Expect(q.Pending()).To(Equal(1))
	})

	It("skips cancelled frames", func() {
		q := playback.NewFrameQueue()
		ran := false
		id := q.RequestFrame(func() { ran = true })
		q.CancelFrame(id)
		Expect(q.Flush()).To(BeZero())
		Expect(ran).To(BeFalse())
	})

	It("honours a cancel issued by an earlier callback in the same flush", func() {
		q := playback.NewFrameQueue()
		ran := false
		var second playback.FrameID
		q.RequestFrame(func() { q.CancelFrame(second) })
		second = q.RequestFrame(func() { ran = true })
		Expect(q.Flush()).To(Equal(1))
		Expect(ran).To(BeFalse())
	})
})

var _ = Describe("Pacer", func() {
	It("lets every frame through at rate zero", func() {
		p := playback.NewPacer(0)
		for i := 0; i < 10; i++ {
			Expect(p.Ready()).To(BeTrue())
		}
	})

	It("limits frames to the configured rate", func() {
		now := time.Unix(0, 0)
		p := playback.NewPacerWithClock(10, func() time.Time { return now })

		Expect(p.Ready()).To(BeTrue())
		now = now.Add(50 * time.Millisecond)
		Expect(p.Ready()).To(BeFalse())
		now = now.Add(50 * time.Millisecond)
		Expect(p.Ready()).To(BeTrue())
	})
})
