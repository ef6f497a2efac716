package core

import "fmt"

// ConfigurationError reports a malformed topology or latency config
// discovered at build time, before the clock starts. It is always returned,
// never panicked with: a bad config must prevent the simulation from
// starting rather than surface mid-run.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

// InvariantViolation reports a breach of one of the core's runtime
// invariants (inserting into a busy pipe, zero-latency instruction,
// dispatching past credits, a transfer instruction reaching the wrong home
// pipe, ...). These are fatal: the caller is expected to recover(), report
// the current cycle, and stop the simulation, mirroring the "print and
// exit" behavior described for this core's error boundary.
type InvariantViolation struct {
	Component string
	Cycle     float64
	Msg       string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s at cycle %.0f: %s", e.Component, e.Cycle, e.Msg)
}

// Assert panics with an *InvariantViolation if cond is false. Used at the
// few points (§7) where a breach can only be a programming or config error
// that must halt the run immediately.
func Assert(cond bool, component string, cycle float64, format string, args ...interface{}) {
	if cond {
		return
	}
	panic(&InvariantViolation{
		Component: component,
		Cycle:     cycle,
		Msg:       fmt.Sprintf(format, args...),
	})
}
