package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/latency"
)

var _ = Describe("Table", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.Default()
	})

	Describe("default latencies", func() {
		It("gives ALU pipes a 1-cycle latency", func() {
			Expect(table.For(core.PipeInt)).To(Equal(uint32(1)))
		})

		It("gives multiply pipes a 3-cycle latency", func() {
			Expect(table.For(core.PipeMul)).To(Equal(uint32(3)))
		})

		It("gives divide pipes the longest integer latency", func() {
			Expect(table.For(core.PipeDiv)).To(Equal(uint32(12)))
		})

		It("gives branch pipes a 1-cycle latency", func() {
			Expect(table.For(core.PipeBranch)).To(Equal(uint32(1)))
		})
	})

	Describe("Validate", func() {
		It("accepts the default table", func() {
			Expect(table.Validate()).NotTo(HaveOccurred())
		})

		It("rejects a zero latency", func() {
			table.Multiply = 0
			Expect(table.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("returns an independent copy", func() {
			clone := table.Clone()
			clone.ALU = 9
			Expect(table.ALU).To(Equal(uint32(1)))
		})
	})

	Describe("Load and Save", func() {
		It("round-trips a table through a JSON file", func() {
			dir, err := os.MkdirTemp("", "oouexec-latency")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, "latency.json")
			table.Divide = 20
			Expect(table.Save(path)).NotTo(HaveOccurred())

			loaded, err := latency.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Divide).To(Equal(uint32(20)))
			Expect(loaded.ALU).To(Equal(uint32(1)))
		})
	})
})
