// Package issuequeue implements the issue queue: a capacity-bounded pool of
// dispatched instructions that wakes up every cycle, picks the oldest entry
// whose sources are ready and whose routed pipe is free, and issues it. It
// is grounded on Execute.cpp's per-cycle scheduler loop, realized here as an
// akita secondary TickingComponent. The cycle-boundary scoreboard latch a
// wakeup relies on is not a property of this ticking order; it comes from
// pipe.ExecutionPipe delaying its scoreboard commit a full cycle past the
// execute event that produced it (see pipe/events.go's scoreboardWriteEvent),
// so a queue's regular tick always reads state as of the previous cycle's
// writes regardless of where its own tick falls relative to a pipe's events.
package issuequeue

import (
	"sort"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/pipe"
)

// HookPosDispatch fires when an instruction enters the queue.
var HookPosDispatch = &sim.HookPos{Name: "IssueQueue.Dispatch"}

// HookPosIssue fires when an instruction leaves the queue for a pipe.
var HookPosIssue = &sim.HookPos{Name: "IssueQueue.Issue"}

// HookPosFlush fires once per flushed queued instruction.
var HookPosFlush = &sim.HookPos{Name: "IssueQueue.Flush"}

// entry is one instruction resident in the queue, awaiting issue.
type entry struct {
	inst core.Instruction
}

// IssueQueue holds instructions targeting one or more execution pipes of
// the same or related kinds, per the topology's issue_queue_to_pipe_map.
type IssueQueue struct {
	*sim.TickingComponent

	name       string
	capacity   int
	scoreboard *core.Scoreboard
	entries    []*entry
	routes     map[core.PipeKind][]*pipe.ExecutionPipe

	totalIssued uint64
}

// New builds an IssueQueue with the given name and capacity. Routes are
// attached afterward via BindRoute, mirroring the topology factory's
// two-phase Configure/bindLate construction (spec §9).
func New(name string, engine sim.Engine, freq sim.Freq, capacity int, scoreboard *core.Scoreboard) *IssueQueue {
	q := &IssueQueue{
		name:       name,
		capacity:   capacity,
		scoreboard: scoreboard,
		routes:     make(map[core.PipeKind][]*pipe.ExecutionPipe),
	}
	q.TickingComponent = sim.NewSecondaryTickingComponent(name, engine, freq, q)
	return q
}

// Name returns the queue's name, shadowing TickingComponent's in doc only;
// the embedded method already does the right thing but is repeated here for
// discoverability from this package's own godoc.
func (q *IssueQueue) Name() string { return q.name }

// BindRoute registers pipes able to execute instructions of kind. Multiple
// pipes may be bound to the same kind (a wide issue_queue_to_pipe_map
// range); the queue tries them in the order given.
func (q *IssueQueue) BindRoute(kind core.PipeKind, pipes ...*pipe.ExecutionPipe) {
	q.routes[kind] = append(q.routes[kind], pipes...)
}

// Credits reports how many more instructions this queue can accept.
func (q *IssueQueue) Credits() int {
	return q.capacity - len(q.entries)
}

// Dispatch admits inst into the queue. The caller (the renamer/dispatch
// unit, outside this core) must check Credits() first; dispatching past
// capacity is a configuration/usage error, not a runtime one this core
// recovers from.
func (q *IssueQueue) Dispatch(inst core.Instruction) {
	core.Assert(len(q.entries) < q.capacity, q.name, float64(q.Engine.CurrentTime()),
		"dispatch into full issue queue with instruction %d", inst.ID())

	q.entries = append(q.entries, &entry{inst: inst})
	q.InvokeHook(sim.HookCtx{Domain: q, Pos: HookPosDispatch, Item: inst})
	q.TickNow()
}

// isReady reports whether every source register inst reads is marked ready.
func (q *IssueQueue) isReady(inst core.Instruction) bool {
	for _, r := range inst.SourceRegs(core.RegInteger) {
		if !q.scoreboard.IsReady(core.RegInteger, r) {
			return false
		}
	}
	for _, r := range inst.SourceRegs(core.RegFloat) {
		if !q.scoreboard.IsReady(core.RegFloat, r) {
			return false
		}
	}
	return true
}

// selectPipe returns the first free pipe bound to inst's kind, or nil.
func (q *IssueQueue) selectPipe(inst core.Instruction) *pipe.ExecutionPipe {
	for _, p := range q.routes[inst.PipeKind()] {
		if !p.Busy() {
			return p
		}
	}
	return nil
}

// Tick implements sim.Ticker. Each cycle it scans the queue oldest-first,
// issuing every ready entry it can route to a free pipe, and reports
// progress so the engine keeps waking it while entries remain.
func (q *IssueQueue) Tick() bool {
	if len(q.entries) == 0 {
		return false
	}

	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].inst.ID() < q.entries[j].inst.ID()
	})

	remaining := q.entries[:0:0]
	for _, e := range q.entries {
		if q.isReady(e.inst) {
			if p := q.selectPipe(e.inst); p != nil {
				p.Insert(e.inst)
				q.totalIssued++
				q.InvokeHook(sim.HookCtx{Domain: q, Pos: HookPosIssue, Item: e.inst, Detail: p})
				continue
			}
		}
		remaining = append(remaining, e)
	}
	q.entries = remaining

	return len(q.entries) > 0
}

// Flush discards every queued entry matching criteria, returning the count
// removed.
func (q *IssueQueue) Flush(criteria core.FlushCriteria) int {
	remaining := q.entries[:0:0]
	count := 0
	for _, e := range q.entries {
		if criteria.Includes(e.inst) {
			e.inst.SetStatus(core.StatusFlushed)
			count++
			q.InvokeHook(sim.HookCtx{Domain: q, Pos: HookPosFlush, Item: e.inst, Detail: criteria})
			continue
		}
		remaining = append(remaining, e)
	}
	q.entries = remaining
	return count
}

// Occupancy returns the number of instructions currently resident.
func (q *IssueQueue) Occupancy() int { return len(q.entries) }

// Stats reports lifetime issue throughput for the CLI's summary table.
func (q *IssueQueue) Stats() (issued uint64) { return q.totalIssued }
