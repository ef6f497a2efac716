package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oouexec/core"
)

var _ = Describe("Scoreboard", func() {
	var sb *core.Scoreboard

	BeforeEach(func() {
		sb = core.NewScoreboard(map[core.RegFile]int{
			core.RegInteger: 8,
			core.RegFloat:   4,
		})
	})

	It("starts with every register not ready", func() {
		Expect(sb.IsReady(core.RegInteger, 0)).To(BeFalse())
	})

	It("treats an out-of-range register as always ready", func() {
		Expect(sb.IsReady(core.RegInteger, 100)).To(BeTrue())
		Expect(sb.IsReady(core.RegInteger, -1)).To(BeTrue())
	})

	It("marks registers ready and not ready independently per file", func() {
		sb.SetReady(core.RegInteger, []int{2, 3})
		Expect(sb.IsReady(core.RegInteger, 2)).To(BeTrue())
		Expect(sb.IsReady(core.RegFloat, 2)).To(BeFalse())

		sb.SetNotReady(core.RegInteger, []int{2})
		Expect(sb.IsReady(core.RegInteger, 2)).To(BeFalse())
		Expect(sb.IsReady(core.RegInteger, 3)).To(BeTrue())
	})

	It("marks every register in a file ready at once", func() {
		sb.MarkAllReady(core.RegFloat)
		for i := 0; i < sb.Size(core.RegFloat); i++ {
			Expect(sb.IsReady(core.RegFloat, i)).To(BeTrue())
		}
		Expect(sb.IsReady(core.RegInteger, 0)).To(BeFalse())
	})

	It("reports the configured size per file", func() {
		Expect(sb.Size(core.RegInteger)).To(Equal(8))
		Expect(sb.Size(core.RegFloat)).To(Equal(4))
	})
})
