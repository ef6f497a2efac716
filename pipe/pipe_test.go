package pipe_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/core/instr"
	"github.com/sarchlab/oouexec/pipe"
)

var _ = Describe("ExecutionPipe", func() {
	var (
		engine     sim.Engine
		scoreboard *core.Scoreboard
		completed  []core.Instruction
		flushes    []core.FlushCriteria
		p          *pipe.ExecutionPipe
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		scoreboard = core.NewScoreboard(map[core.RegFile]int{
			core.RegInteger: 64,
			core.RegFloat:   64,
		})
		completed = nil
		flushes = nil

		p = pipe.New(
			"exe0", engine, 1*sim.GHz, []core.PipeKind{core.PipeInt}, core.RegInteger, scoreboard,
			func(inst core.Instruction) { completed = append(completed, inst) },
			func(criteria core.FlushCriteria) { flushes = append(flushes, criteria) },
		)
	})

	It("is not busy before any instruction is inserted", func() {
		Expect(p.Busy()).To(BeFalse())
	})

	It("becomes busy on insert and frees up once it executes", func() {
		inst := instr.New(1, core.PipeInt, instr.WithDests(core.RegInteger, 5))
		p.Insert(inst)
		Expect(p.Busy()).To(BeTrue())

		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(p.Busy()).To(BeFalse())
		Expect(scoreboard.IsReady(core.RegInteger, 5)).To(BeTrue())
		Expect(completed).To(HaveLen(1))
		Expect(completed[0].ID()).To(Equal(uint64(1)))
	})

	It("marks the destination ready and completes the instruction", func() {
		scoreboard.SetNotReady(core.RegInteger, []int{7})
		inst := instr.New(2, core.PipeInt, instr.WithDests(core.RegInteger, 7), instr.WithLatency(3))
		p.Insert(inst)

		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(scoreboard.IsReady(core.RegInteger, 7)).To(BeTrue())
		Expect(completed).To(HaveLen(1))
	})

	It("accepts a new instruction once the resident one has executed and completed", func() {
		slow := instr.New(3, core.PipeInt, instr.WithLatency(5))
		p.Insert(slow)
		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(p.Busy()).To(BeFalse())

		next := instr.New(4, core.PipeInt)
		p.Insert(next)
		Expect(p.Busy()).To(BeTrue())
	})

	It("discards an in-flight instruction on Flush and does not complete it", func() {
		victim := instr.New(5, core.PipeInt, instr.WithLatency(4))
		p.Insert(victim)

		criteria := core.NewFlushCriteria(core.FlushException, victim)
		n := p.Flush(criteria)
		Expect(n).To(Equal(1))
		Expect(p.Busy()).To(BeFalse())

		Expect(engine.Run()).NotTo(HaveOccurred())
		Expect(completed).To(BeEmpty())
		Expect(victim.Status()).To(Equal(core.StatusFlushed))
	})

	It("raises a misprediction and suppresses its own completion when the cone includes itself", func() {
		branch := instr.New(6, core.PipeBranch, instr.AsBranch())
		var bp *pipe.ExecutionPipe
		bp = pipe.New(
			"exe_br", engine, 1*sim.GHz, []core.PipeKind{core.PipeBranch}, core.RegInteger, scoreboard,
			func(inst core.Instruction) { completed = append(completed, inst) },
			func(criteria core.FlushCriteria) {
				flushes = append(flushes, criteria)
				bp.Flush(criteria)
			},
			pipe.WithMispredictPredictor(func(inst core.Instruction) (bool, core.FlushCriteria) {
				return true, core.NewFlushCriteria(core.FlushMisprediction, inst)
			}),
		)

		bp.Insert(branch)
		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(flushes).To(HaveLen(1))
		Expect(bp.Busy()).To(BeFalse())

		Expect(engine.Run()).NotTo(HaveOccurred())
		Expect(completed).To(BeEmpty())
		executed, flushed := bp.Stats()
		Expect(executed).To(Equal(uint64(1)))
		Expect(flushed).To(Equal(uint64(1)))
	})

	It("mispredicts at a rate statistically consistent with 1-in-20, over many branches", func() {
		const (
			n    = 10000
			rate = 20
		)
		rng := rand.New(rand.NewSource(42))
		predictor := pipe.RandomMispredictor(rng, rate)

		mispredicts := 0
		for i := 0; i < n; i++ {
			branch := instr.New(uint64(i+1), core.PipeBranch, instr.AsBranch())
			if mispredicted, _ := predictor(branch); mispredicted {
				mispredicts++
			}
		}

		p := 1.0 / float64(rate)
		mean := p * float64(n)
		stddev := math.Sqrt(float64(n) * p * (1 - p))

		Expect(float64(mispredicts)).To(BeNumerically("~", mean, 3*stddev))
	})
})
