// Package pipe implements a single functional execution pipe: the unit that
// takes one instruction at a time, holds it busy for its execute latency,
// writes its destinations onto the scoreboard, and reports completion one
// cycle later. It is grounded on ExecutePipe.cpp's insertInst/executeInst_/
// completeInst_/flushInst_ state machine, realized here as one-shot akita
// events instead of a scheduled callback queue.
package pipe

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
)

// HookPosInsert fires when an instruction is accepted into the pipe.
var HookPosInsert = &sim.HookPos{Name: "Pipe.Insert"}

// HookPosExecute fires when an instruction finishes its execute latency and
// its scoreboard write is scheduled.
var HookPosExecute = &sim.HookPos{Name: "Pipe.Execute"}

// HookPosComplete fires when an instruction retires from the pipe.
var HookPosComplete = &sim.HookPos{Name: "Pipe.Complete"}

// HookPosFlush fires once per flushed in-flight instruction.
var HookPosFlush = &sim.HookPos{Name: "Pipe.Flush"}

// MispredictPredictor decides, for a branch instruction, whether it was
// mispredicted and what flush criteria to raise if so.
type MispredictPredictor func(inst core.Instruction) (mispredicted bool, criteria core.FlushCriteria)

// RandomMispredictor reports a misprediction with probability 1/rate,
// raising an inclusive flush cone rooted at the branch itself. This mirrors
// ExecutePipe.cpp's test-mode injector (1-in-20, i.e. rate 20), which exists
// purely to stress the flush path without a real branch predictor wired up.
func RandomMispredictor(rng *rand.Rand, rate int) MispredictPredictor {
	return func(inst core.Instruction) (bool, core.FlushCriteria) {
		if rng.Intn(rate) != 0 {
			return false, core.FlushCriteria{}
		}
		return true, core.NewFlushCriteria(core.FlushMisprediction, inst)
	}
}

// pendingSlot identifies one in-flight occupancy of the pipe. Flush cancels
// an occupancy by nil-ing the pipe's pointer to its slot; any event closing
// over a slot that is no longer the pipe's current slot for that phase is
// stale and no-ops when it fires. This stands in for a cancel-by-identity
// primitive the underlying event queue does not provide.
type pendingSlot struct {
	inst core.Instruction
}

// ExecutionPipe is one functional unit in the execute stage, potentially
// serving several pipe kinds (a topology pipeline entry can list more than
// one, e.g. ["int", "mul", "i2f", "cmov"]). It is exercised as a primary,
// one-shot-event state machine rather than a TickingComponent: an inserted
// instruction schedules exactly one execute event and, unless flushed,
// exactly one complete event fixed at 1 cycle after execute.
type ExecutionPipe struct {
	sim.HookableBase

	name   string
	engine sim.Engine
	freq   sim.Freq
	kinds  []core.PipeKind

	scoreboard *core.Scoreboard
	regFile    core.RegFile
	altRegFile core.RegFile // destination file for I2F/F2I transfer pipes

	ignoreInstExecuteTime bool
	fixedExecuteTime      uint32

	predictor MispredictPredictor

	executing  *pendingSlot // drives Busy(); cleared the instant execute fires
	completing *pendingSlot // awaiting completion credit only

	onComplete   func(inst core.Instruction)
	onMispredict func(criteria core.FlushCriteria)

	totalInstsExecuted uint64
	totalFlushed       uint64
}

// Option configures an ExecutionPipe at construction time.
type Option func(*ExecutionPipe)

// WithFixedExecuteTime makes the pipe ignore each instruction's own
// ExecuteLatency and always take cycles instead, per the topology config's
// ignore_inst_execute_time/execute_time pair.
func WithFixedExecuteTime(cycles uint32) Option {
	return func(p *ExecutionPipe) {
		p.ignoreInstExecuteTime = true
		p.fixedExecuteTime = cycles
	}
}

// WithMispredictPredictor installs the branch-resolution collaborator. Only
// meaningful on a pipe carrying the branch kind.
func WithMispredictPredictor(pred MispredictPredictor) Option {
	return func(p *ExecutionPipe) { p.predictor = pred }
}

// WithTransferDest records the register file a transfer pipe (I2F/F2I)
// writes its destination into, which differs from the file it reads sources
// from and is homed in.
func WithTransferDest(file core.RegFile) Option {
	return func(p *ExecutionPipe) { p.altRegFile = file }
}

// New builds an ExecutionPipe serving the given kinds. onComplete is invoked
// when an instruction retires normally; onMispredict is invoked when the
// predictor reports a misprediction, after completion has been scheduled.
func New(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	kinds []core.PipeKind,
	regFile core.RegFile,
	scoreboard *core.Scoreboard,
	onComplete func(inst core.Instruction),
	onMispredict func(criteria core.FlushCriteria),
	opts ...Option,
) *ExecutionPipe {
	p := &ExecutionPipe{
		name:         name,
		engine:       engine,
		freq:         freq,
		kinds:        kinds,
		regFile:      regFile,
		altRegFile:   regFile,
		scoreboard:   scoreboard,
		onComplete:   onComplete,
		onMispredict: onMispredict,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the pipe in logs and stats reports.
func (p *ExecutionPipe) Name() string { return p.name }

// Kinds reports the functional categories this pipe serves.
func (p *ExecutionPipe) Kinds() []core.PipeKind { return p.kinds }

// HasKind reports whether this pipe serves the given kind.
func (p *ExecutionPipe) HasKind(k core.PipeKind) bool {
	for _, kind := range p.kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Busy reports whether the pipe is occupied and so cannot currently accept
// a new instruction. Mirrors ExecutePipe.cpp's unit_busy_: it is cleared the instant the
// resident instruction executes, not when it completes, so a new
// instruction may be inserted while the previous one's completion credit is
// still outstanding.
func (p *ExecutionPipe) Busy() bool {
	return p.executing != nil
}

// Insert accepts inst into the pipe and schedules its execute event after
// the instruction's (or the pipe's fixed) execute time. Callers (the issue
// queue) must not call Insert while Busy() is true.
func (p *ExecutionPipe) Insert(inst core.Instruction) {
	core.Assert(!p.Busy(), p.name, float64(p.engine.CurrentTime()),
		"insert into busy pipe with instruction %d", inst.ID())

	exeTime := inst.ExecuteLatency()
	if p.ignoreInstExecuteTime {
		exeTime = p.fixedExecuteTime
	}
	core.Assert(exeTime >= 1, p.name, float64(p.engine.CurrentTime()),
		"instruction %d has zero execute time", inst.ID())

	slot := &pendingSlot{inst: inst}
	p.executing = slot
	inst.SetStatus(core.StatusScheduled)

	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosInsert, Item: inst})

	evt := newExecuteEvent(p, slot, p.nCyclesLater(exeTime))
	p.engine.Schedule(evt)
}

func (p *ExecutionPipe) nCyclesLater(n uint32) sim.VTimeInSec {
	t := p.engine.CurrentTime()
	for i := uint32(0); i < n; i++ {
		t = p.freq.NextTick(t)
	}
	return t
}

// handleExecute fires once an instruction's execute time has elapsed,
// scheduling its scoreboard write for one cycle later and, for a branch,
// consulting the misprediction predictor.
func (p *ExecutionPipe) handleExecute(evt *executeEvent) {
	if p.executing != evt.slot {
		return // flushed before execution; nothing to do
	}

	inst := evt.slot.inst
	p.executing = nil
	inst.SetStatus(core.StatusExecuting)

	destFile := p.regFile
	switch {
	case inst.IsTransfer() && destFile != p.altRegFile:
		destFile = p.altRegFile
	case inst.IsTransfer() && destFile == p.altRegFile:
		core.Assert(false, p.name, float64(p.engine.CurrentTime()),
			"transfer instruction %d has no distinct destination file configured", inst.ID())
	}

	wrEvt := newScoreboardWriteEvent(p, destFile, inst.DestRegs(destFile), p.nCyclesLater(1))
	p.engine.Schedule(wrEvt)

	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosExecute, Item: inst})

	p.totalInstsExecuted++
	p.scheduleComplete(inst)

	if inst.IsBranch() && p.predictor != nil {
		if mispredicted, criteria := p.predictor(inst); mispredicted {
			// onMispredict fans out to every pipe and queue including this
			// one; if the flush cone is inclusive of the branch itself
			// (spec §5's convention), the completion slot just scheduled
			// above is canceled synchronously before this call returns.
			p.onMispredict(criteria)
		}
	}
}

// handleScoreboardWrite commits a scoreboard write that was queued by
// handleExecute one cycle earlier. It carries no pendingSlot and is never
// consulted by Flush: the instruction that produced it has already executed
// and, per spec §5, that side effect stands even if the instruction's own
// completion is flushed afterward.
func (p *ExecutionPipe) handleScoreboardWrite(evt *scoreboardWriteEvent) {
	p.scoreboard.SetReady(evt.file, evt.regs)
}

func (p *ExecutionPipe) scheduleComplete(inst core.Instruction) {
	slot := &pendingSlot{inst: inst}
	p.completing = slot

	evt := newCompleteEvent(p, slot, p.nCyclesLater(1))
	p.engine.Schedule(evt)
}

func (p *ExecutionPipe) handleComplete(evt *completeEvent) {
	if p.completing != evt.slot {
		return // flushed before completion
	}

	inst := evt.slot.inst
	p.completing = nil
	inst.SetStatus(core.StatusCompleted)

	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosComplete, Item: inst})
	p.onComplete(inst)
}

// Flush discards every in-flight occupancy (executing and/or completing)
// whose instruction matches criteria. Returns the number of occupancies
// discarded (0, 1 or 2: because Busy clears at execute, the executing slot
// can hold a newly inserted instruction while the completing slot still
// holds the previous one awaiting its completion credit).
func (p *ExecutionPipe) Flush(criteria core.FlushCriteria) int {
	count := 0
	if p.executing != nil && criteria.Includes(p.executing.inst) {
		inst := p.executing.inst
		inst.SetStatus(core.StatusFlushed)
		p.executing = nil
		p.totalFlushed++
		count++
		p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosFlush, Item: inst, Detail: criteria})
	}
	if p.completing != nil && criteria.Includes(p.completing.inst) {
		inst := p.completing.inst
		inst.SetStatus(core.StatusFlushed)
		p.completing = nil
		p.totalFlushed++
		count++
		p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosFlush, Item: inst, Detail: criteria})
	}
	return count
}

// Stats reports this pipe's lifetime throughput for the CLI's summary table.
func (p *ExecutionPipe) Stats() (executed, flushed uint64) {
	return p.totalInstsExecuted, p.totalFlushed
}

// Handle implements sim.Handler, dispatching the pipe's own event types.
func (p *ExecutionPipe) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *executeEvent:
		p.handleExecute(evt)
	case *completeEvent:
		p.handleComplete(evt)
	case *scoreboardWriteEvent:
		p.handleScoreboardWrite(evt)
	default:
		return fmt.Errorf("pipe %s: unrecognized event type %T", p.name, e)
	}
	return nil
}
