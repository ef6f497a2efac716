// Package instr provides a reference core.Instruction implementation used
// by the demonstration CLI and by this module's tests. A real simulator
// supplies its own renamed-instruction handle (spec §1: the renamer is an
// external collaborator); this package exists so the issue queue and
// execution pipe can be built and exercised without one.
package instr

import "github.com/sarchlab/oouexec/core"

// Inst is a plain, mutable instruction handle.
type Inst struct {
	id       uint64
	pipeKind core.PipeKind
	srcInt   []int
	srcFloat []int
	dstInt   []int
	dstFloat []int
	latency  uint32
	isBranch bool
	isXfer   bool
	isLoad   bool
	isStore  bool
	status   core.Status
}

// Option configures an Inst at construction time.
type Option func(*Inst)

// WithSources sets the source register indices for the given file.
func WithSources(file core.RegFile, regs ...int) Option {
	return func(i *Inst) {
		if file == core.RegFloat {
			i.srcFloat = regs
		} else {
			i.srcInt = regs
		}
	}
}

// WithDests sets the destination register indices for the given file.
func WithDests(file core.RegFile, regs ...int) Option {
	return func(i *Inst) {
		if file == core.RegFloat {
			i.dstFloat = regs
		} else {
			i.dstInt = regs
		}
	}
}

// WithLatency overrides the default 1-cycle execute latency.
func WithLatency(cycles uint32) Option {
	return func(i *Inst) { i.latency = cycles }
}

// AsBranch marks the instruction as a branch.
func AsBranch() Option { return func(i *Inst) { i.isBranch = true } }

// AsTransfer marks the instruction as an I2F/F2I register-file transfer.
func AsTransfer() Option { return func(i *Inst) { i.isXfer = true } }

// AsLoad marks the instruction as a load.
func AsLoad() Option { return func(i *Inst) { i.isLoad = true } }

// AsStore marks the instruction as a store.
func AsStore() Option { return func(i *Inst) { i.isStore = true } }

// New creates an Inst with the given id and pipe kind, defaulting to a
// 1-cycle latency and no register operands.
func New(id uint64, kind core.PipeKind, opts ...Option) *Inst {
	i := &Inst{
		id:       id,
		pipeKind: kind,
		latency:  1,
		status:   core.StatusDispatched,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ID implements core.Instruction.
func (i *Inst) ID() uint64 { return i.id }

// PipeKind implements core.Instruction.
func (i *Inst) PipeKind() core.PipeKind { return i.pipeKind }

// SourceRegs implements core.Instruction.
func (i *Inst) SourceRegs(file core.RegFile) []int {
	if file == core.RegFloat {
		return i.srcFloat
	}
	return i.srcInt
}

// DestRegs implements core.Instruction.
func (i *Inst) DestRegs(file core.RegFile) []int {
	if file == core.RegFloat {
		return i.dstFloat
	}
	return i.dstInt
}

// ExecuteLatency implements core.Instruction.
func (i *Inst) ExecuteLatency() uint32 { return i.latency }

// IsBranch implements core.Instruction.
func (i *Inst) IsBranch() bool { return i.isBranch }

// IsTransfer implements core.Instruction.
func (i *Inst) IsTransfer() bool { return i.isXfer }

// IsLoad implements core.Instruction.
func (i *Inst) IsLoad() bool { return i.isLoad }

// IsStore implements core.Instruction.
func (i *Inst) IsStore() bool { return i.isStore }

// Status implements core.Instruction.
func (i *Inst) Status() core.Status { return i.status }

// SetStatus implements core.Instruction.
func (i *Inst) SetStatus(s core.Status) { i.status = s }
