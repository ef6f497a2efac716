package core

import (
	"log"

	"github.com/sarchlab/akita/v4/sim"
)

// ExecutionLogger is a sim.Hook that prints one line per insert, dispatch,
// issue, execute, complete and flush event it observes, in the same
// LogHookBase-wrapping style as akita's own EventLogger.
type ExecutionLogger struct {
	sim.LogHookBase
}

// NewExecutionLogger returns an ExecutionLogger writing to logger.
func NewExecutionLogger(logger *log.Logger) *ExecutionLogger {
	h := new(ExecutionLogger)
	h.Logger = logger
	return h
}

// Func implements sim.Hook. It logs the instruction ID, the hook position
// name, and whatever detail the call site attached (a pipe name, a
// FlushCriteria, and so on).
func (h *ExecutionLogger) Func(ctx sim.HookCtx) {
	inst, ok := ctx.Item.(Instruction)
	if !ok {
		return
	}

	if ctx.Detail != nil {
		h.Logger.Printf("inst %d: %s (%v)", inst.ID(), ctx.Pos.Name, ctx.Detail)
		return
	}
	h.Logger.Printf("inst %d: %s", inst.ID(), ctx.Pos.Name)
}
