package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/core/instr"
)

var _ = Describe("FlushCriteria", func() {
	It("includes the origin instruction by default", func() {
		origin := instr.New(10, core.PipeBranch)
		criteria := core.NewFlushCriteria(core.FlushMisprediction, origin)
		Expect(criteria.Includes(origin)).To(BeTrue())
	})

	It("includes every younger instruction by default", func() {
		origin := instr.New(10, core.PipeBranch)
		younger := instr.New(11, core.PipeInt)
		criteria := core.NewFlushCriteria(core.FlushMisprediction, origin)
		Expect(criteria.Includes(younger)).To(BeTrue())
	})

	It("excludes older instructions by default", func() {
		origin := instr.New(10, core.PipeBranch)
		older := instr.New(9, core.PipeInt)
		criteria := core.NewFlushCriteria(core.FlushMisprediction, origin)
		Expect(criteria.Includes(older)).To(BeFalse())
	})

	It("honors a custom inclusion predicate", func() {
		origin := instr.New(10, core.PipeInt)
		criteria := core.NewFlushCriteriaWithPredicate(core.FlushException, origin,
			func(inst core.Instruction) bool { return inst.ID() == origin.ID() })

		Expect(criteria.Includes(origin)).To(BeTrue())
		Expect(criteria.Includes(instr.New(11, core.PipeInt))).To(BeFalse())
	})
})
