package issuequeue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/core/instr"
	"github.com/sarchlab/oouexec/issuequeue"
	"github.com/sarchlab/oouexec/pipe"
)

var _ = Describe("IssueQueue", func() {
	var (
		engine     sim.Engine
		scoreboard *core.Scoreboard
		completed  []core.Instruction
		q          *issuequeue.IssueQueue
		p0         *pipe.ExecutionPipe
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		scoreboard = core.NewScoreboard(map[core.RegFile]int{
			core.RegInteger: 64,
			core.RegFloat:   64,
		})
		completed = nil

		p0 = pipe.New(
			"exe0", engine, 1*sim.GHz, []core.PipeKind{core.PipeInt}, core.RegInteger, scoreboard,
			func(inst core.Instruction) { completed = append(completed, inst) },
			func(core.FlushCriteria) {},
		)
		q = issuequeue.New("iq0", engine, 1*sim.GHz, 4, scoreboard)
		q.BindRoute(core.PipeInt, p0)
	})

	It("reports credits equal to capacity when empty", func() {
		Expect(q.Credits()).To(Equal(4))
	})

	It("issues a ready instruction to its routed pipe", func() {
		inst := instr.New(1, core.PipeInt)
		q.Dispatch(inst)
		Expect(q.Credits()).To(Equal(3))

		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(completed).To(HaveLen(1))
		Expect(q.Occupancy()).To(Equal(0))
	})

	It("holds back an instruction whose source is not ready and issues it once the producer completes", func() {
		scoreboard.SetNotReady(core.RegInteger, []int{3})

		producer := instr.New(1, core.PipeInt, instr.WithDests(core.RegInteger, 3))
		consumer := instr.New(2, core.PipeInt, instr.WithSources(core.RegInteger, 3))

		q.Dispatch(producer)
		q.Dispatch(consumer)

		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(completed).To(HaveLen(2))
		Expect(completed[0].ID()).To(Equal(uint64(1)))
		Expect(completed[1].ID()).To(Equal(uint64(2)))
	})

	It("issues the oldest ready instruction first when two compete for one pipe", func() {
		older := instr.New(1, core.PipeInt)
		younger := instr.New(2, core.PipeInt)

		q.Dispatch(younger)
		q.Dispatch(older)

		Expect(engine.Run()).NotTo(HaveOccurred())

		Expect(completed).To(HaveLen(2))
		Expect(completed[0].ID()).To(Equal(uint64(1)))
	})

	It("removes flushed entries without issuing them", func() {
		victim := instr.New(5, core.PipeInt)
		scoreboard.SetNotReady(core.RegInteger, []int{1})
		victim2 := instr.New(6, core.PipeInt, instr.WithSources(core.RegInteger, 1))

		q.Dispatch(victim)
		q.Dispatch(victim2)

		n := q.Flush(core.NewFlushCriteria(core.FlushException, victim))
		Expect(n).To(Equal(2))
		Expect(q.Occupancy()).To(Equal(0))

		Expect(engine.Run()).NotTo(HaveOccurred())
		Expect(completed).To(BeEmpty())
	})
})
