// Package core defines the types shared by the issue queue, execution pipe
// and topology factory: register files, pipe kinds, instruction status and
// the scoreboard that ties wakeup to completion.
package core

import "fmt"

// RegFile identifies which physical register file a value lives in.
type RegFile int

// The two register files the core knows about.
const (
	RegInteger RegFile = iota
	RegFloat
)

// String returns the canonical name of the register file.
func (f RegFile) String() string {
	switch f {
	case RegInteger:
		return "INTEGER"
	case RegFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("RegFile(%d)", int(f))
	}
}

// PipeKind is the closed enumeration of functional-pipe categories an
// instruction can target.
type PipeKind int

// Recognized pipe kinds, matching the topology config's vocabulary.
const (
	PipeInt PipeKind = iota
	PipeMul
	PipeDiv
	PipeBranch
	PipeI2F
	PipeF2I
	PipeFloat
	PipeFAddSub
	PipeFMAC
	PipeCMov
)

var pipeKindNames = map[PipeKind]string{
	PipeInt:     "int",
	PipeMul:     "mul",
	PipeDiv:     "div",
	PipeBranch:  "br",
	PipeI2F:     "i2f",
	PipeF2I:     "f2i",
	PipeFloat:   "float",
	PipeFAddSub: "faddsub",
	PipeFMAC:    "fmac",
	PipeCMov:    "cmov",
}

var pipeKindsByName = func() map[string]PipeKind {
	m := make(map[string]PipeKind, len(pipeKindNames))
	for k, v := range pipeKindNames {
		m[v] = k
	}
	return m
}()

// String returns the topology-config spelling of the pipe kind.
func (k PipeKind) String() string {
	if s, ok := pipeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PipeKind(%d)", int(k))
}

// ParsePipeKind converts a topology-config string into a PipeKind. Unknown
// kinds are a ConfigurationError: the topology is read once at build time
// and must be fully valid before the clock starts.
func ParsePipeKind(s string) (PipeKind, error) {
	k, ok := pipeKindsByName[s]
	if !ok {
		return 0, &ConfigurationError{Msg: fmt.Sprintf("unknown pipe kind %q", s)}
	}
	return k, nil
}

// Status is the lifecycle state of an instruction as observed by this core.
type Status int

// The statuses an instruction passes through while resident in this core.
const (
	StatusDispatched Status = iota
	StatusScheduled
	StatusExecuting
	StatusCompleted
	StatusFlushed
)

// String names the status for logging.
func (s Status) String() string {
	switch s {
	case StatusDispatched:
		return "dispatched"
	case StatusScheduled:
		return "scheduled"
	case StatusExecuting:
		return "executing"
	case StatusCompleted:
		return "completed"
	case StatusFlushed:
		return "flushed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Instruction is the opaque handle this core operates on. It is owned and
// produced by the renamer/dispatch unit, which sits outside this core's
// boundary (spec §1); this core only reads it and mutates Status.
type Instruction interface {
	// ID is a unique, monotonically increasing identity: younger
	// instructions have larger IDs. Age comparisons use this field.
	ID() uint64

	// PipeKind is the functional-pipe category this instruction requires.
	PipeKind() PipeKind

	// SourceRegs returns the physical register indices this instruction
	// reads from the given register file.
	SourceRegs(file RegFile) []int

	// DestRegs returns the physical register indices this instruction
	// writes in the given register file.
	DestRegs(file RegFile) []int

	// ExecuteLatency is the instruction's declared execute latency in
	// cycles, used when a pipe does not override it. Must be >= 1.
	ExecuteLatency() uint32

	IsBranch() bool
	IsTransfer() bool
	IsLoad() bool
	IsStore() bool

	Status() Status
	SetStatus(Status)
}
