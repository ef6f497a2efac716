package core

// FlushCause identifies why a flush cone was raised.
type FlushCause int

// The recognized flush causes.
const (
	FlushMisprediction FlushCause = iota
	FlushException
)

// String names the cause for logging.
func (c FlushCause) String() string {
	switch c {
	case FlushMisprediction:
		return "MISPREDICTION"
	case FlushException:
		return "EXCEPTION"
	default:
		return "UNKNOWN"
	}
}

// FlushCriteria identifies the instructions whose speculative effects must
// be discarded. Per spec §5, the convention across the simulator is that
// the originator of a misprediction is included in its own flush cone;
// implementers must honor whatever Includes predicate the flush's sender
// attaches, so the predicate is carried on the value rather than hard-coded
// into every consumer.
type FlushCriteria struct {
	Cause    FlushCause
	Origin   Instruction
	includes func(Instruction) bool
}

// NewFlushCriteria builds a FlushCriteria whose Includes predicate treats
// every instruction with an ID at or after origin's as part of the cone —
// i.e. origin itself, plus every younger in-flight instruction. This is the
// inclusive convention spec §5 calls out for misprediction; we apply it
// uniformly to exceptions too, since nothing in spec.md distinguishes the
// two causes' inclusivity (see DESIGN.md's Open Questions).
func NewFlushCriteria(cause FlushCause, origin Instruction) FlushCriteria {
	originID := origin.ID()
	return FlushCriteria{
		Cause:  cause,
		Origin: origin,
		includes: func(inst Instruction) bool {
			return inst.ID() >= originID
		},
	}
}

// NewFlushCriteriaWithPredicate builds a FlushCriteria with a caller-chosen
// inclusion predicate, for flush managers (outside this core) that need a
// different cone shape than "this instruction and everything younger".
func NewFlushCriteriaWithPredicate(cause FlushCause, origin Instruction, includes func(Instruction) bool) FlushCriteria {
	return FlushCriteria{Cause: cause, Origin: origin, includes: includes}
}

// Includes reports whether inst's speculative effects fall inside this
// flush cone.
func (c FlushCriteria) Includes(inst Instruction) bool {
	if c.includes == nil {
		return false
	}
	return c.includes(inst)
}
