package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/core/instr"
)

var _ = Describe("Inst", func() {
	It("defaults to a dispatched status and 1-cycle latency", func() {
		i := instr.New(1, core.PipeInt)
		Expect(i.Status()).To(Equal(core.StatusDispatched))
		Expect(i.ExecuteLatency()).To(Equal(uint32(1)))
		Expect(i.IsBranch()).To(BeFalse())
	})

	It("keeps source and destination registers separate per file", func() {
		i := instr.New(2, core.PipeI2F,
			instr.WithSources(core.RegInteger, 3),
			instr.WithDests(core.RegFloat, 4),
			instr.AsTransfer(),
		)
		Expect(i.SourceRegs(core.RegInteger)).To(Equal([]int{3}))
		Expect(i.SourceRegs(core.RegFloat)).To(BeEmpty())
		Expect(i.DestRegs(core.RegFloat)).To(Equal([]int{4}))
		Expect(i.IsTransfer()).To(BeTrue())
	})

	It("tracks status transitions", func() {
		i := instr.New(3, core.PipeInt)
		i.SetStatus(core.StatusExecuting)
		Expect(i.Status()).To(Equal(core.StatusExecuting))
	})
})
