package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/core/instr"
	"github.com/sarchlab/oouexec/latency"
	"github.com/sarchlab/oouexec/topology"
)

// weightedKind pairs a pipe kind with its relative frequency in the
// synthetic instruction stream.
type weightedKind struct {
	kind   core.PipeKind
	weight int
}

var defaultMix = []weightedKind{
	{core.PipeInt, 40},
	{core.PipeMul, 5},
	{core.PipeDiv, 2},
	{core.PipeBranch, 15},
	{core.PipeI2F, 3},
	{core.PipeF2I, 3},
	{core.PipeFloat, 10},
	{core.PipeFAddSub, 10},
	{core.PipeFMAC, 8},
	{core.PipeCMov, 4},
}

// generator is a primary TickingComponent that synthesizes a random
// instruction stream and dispatches it into a topology.Topology, one
// instruction per cycle while the owning issue queue has a free slot.
// It exists only to exercise the core end to end, in place of the renamer
// this core's boundary assumes but does not implement (spec §1).
type generator struct {
	*sim.TickingComponent

	topo       *topology.Topology
	lat        *latency.Table
	rng        *rand.Rand
	mix        []weightedKind
	total      int
	dispatched int
}

func newGenerator(engine sim.Engine, freq sim.Freq, topo *topology.Topology, lat *latency.Table, rng *rand.Rand, total int) *generator {
	g := new(generator)
	g.TickingComponent = sim.NewTickingComponent("fetch", engine, freq, g)
	g.topo = topo
	g.lat = lat
	g.rng = rng
	g.mix = defaultMix
	g.total = total
	return g
}

// nextInstID draws the next instruction identity from the same generator
// the simulation engine uses for its own event identities (sim.GetIDGenerator),
// rather than keeping a second counter. The default sequential generator
// hands out consecutive decimal strings, which is what core.Instruction.ID's
// "unique monotonic id" contract requires.
func nextInstID() uint64 {
	s := sim.GetIDGenerator().Generate()
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("id generator produced a non-numeric id %q: %v", s, err))
	}
	return id
}

func (g *generator) pickKind() core.PipeKind {
	sum := 0
	for _, w := range g.mix {
		sum += w.weight
	}
	roll := g.rng.Intn(sum)
	for _, w := range g.mix {
		if roll < w.weight {
			return w.kind
		}
		roll -= w.weight
	}
	return g.mix[len(g.mix)-1].kind
}

func (g *generator) synthesize() core.Instruction {
	kind := g.pickKind()
	id := nextInstID()

	opts := []instr.Option{instr.WithLatency(g.lat.For(kind))}
	regFile := core.RegInteger
	if kind == core.PipeFloat || kind == core.PipeFAddSub || kind == core.PipeFMAC || kind == core.PipeF2I {
		regFile = core.RegFloat
	}

	srcFile := regFile
	dstFile := regFile
	if kind == core.PipeI2F {
		srcFile, dstFile = core.RegInteger, core.RegFloat
		opts = append(opts, instr.AsTransfer())
	}
	if kind == core.PipeF2I {
		srcFile, dstFile = core.RegFloat, core.RegInteger
		opts = append(opts, instr.AsTransfer())
	}

	size := g.topo.Scoreboard().Size(srcFile)
	src := g.rng.Intn(size)
	dstSize := g.topo.Scoreboard().Size(dstFile)
	dst := g.rng.Intn(dstSize)

	opts = append(opts, instr.WithSources(srcFile, src), instr.WithDests(dstFile, dst))
	if kind == core.PipeBranch {
		opts = append(opts, instr.AsBranch())
	}

	return instr.New(id, kind, opts...)
}

// Tick attempts to dispatch one synthetic instruction. It keeps reporting
// progress (and so keeps getting re-ticked) until total instructions have
// been dispatched, even on cycles where the target queue is full.
func (g *generator) Tick() bool {
	if g.dispatched >= g.total {
		return false
	}

	inst := g.synthesize()
	q := g.topo.QueueForKind(inst.PipeKind())
	if q == nil || q.Credits() == 0 {
		return true
	}

	if err := g.topo.Dispatch(inst); err != nil {
		return true
	}
	g.dispatched++

	return true
}
