package pipe

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
)

// executeEvent fires when a resident instruction finishes its execute
// latency, triggering the scoreboard commit (one cycle later, via
// scoreboardWriteEvent) and the misprediction check. It closes over the
// pendingSlot it was scheduled for, so a stale event (superseded by a
// flush) can recognize itself and no-op instead of acting on an
// instruction that is no longer resident.
type executeEvent struct {
	sim.EventBase
	slot *pendingSlot
}

func newExecuteEvent(p *ExecutionPipe, slot *pendingSlot, t sim.VTimeInSec) *executeEvent {
	return &executeEvent{
		EventBase: *sim.NewEventBase(t, p),
		slot:      slot,
	}
}

// completeEvent fires exactly one cycle after execute, retiring the
// instruction from the pipe, regardless of the instruction's own execute
// latency.
type completeEvent struct {
	sim.EventBase
	slot *pendingSlot
}

func newCompleteEvent(p *ExecutionPipe, slot *pendingSlot, t sim.VTimeInSec) *completeEvent {
	return &completeEvent{
		EventBase: *sim.NewEventBase(t, p),
		slot:      slot,
	}
}

// scoreboardWriteEvent commits an already-executed instruction's
// destinations to the scoreboard one cycle after execute, so a queue's
// wakeup tick on the same cycle as the execute event still reads the
// prior cycle's readiness (spec §5: writes are latched at the cycle
// boundary). Unlike executeEvent/completeEvent it does not close over a
// pendingSlot: the write it performs is a side effect of an execute event
// that has already fired, and spec §5's cancellation semantics say such a
// side effect stands regardless of any flush that reaches the pipe
// afterward, so this event is never looked up or suppressed by Flush.
type scoreboardWriteEvent struct {
	sim.EventBase
	file core.RegFile
	regs []int
}

func newScoreboardWriteEvent(p *ExecutionPipe, file core.RegFile, regs []int, t sim.VTimeInSec) *scoreboardWriteEvent {
	return &scoreboardWriteEvent{
		EventBase: *sim.NewEventBase(t, p),
		file:      file,
		regs:      regs,
	}
}
