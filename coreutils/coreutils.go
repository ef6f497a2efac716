// Package coreutils collects the small pieces of topology-parsing logic
// shared by the issue-queue and execution-pipe factories: pipe-index range
// parsing and register-file homing. Grounded on the inline range-expansion
// loops in Execute.cpp's onConfiguring/bindLate and on ExecutePipe.cpp's
// reg_file_ assignment.
package coreutils

import (
	"strconv"

	"github.com/sarchlab/oouexec/core"
)

// ParsePipeRange expands a one- or two-element topology range entry (e.g.
// ["0"] or ["0", "5"]) into its inclusive [lo, hi] bounds. A single-element
// entry denotes a range of exactly one index.
func ParsePipeRange(entry []string) (lo, hi int, err error) {
	if len(entry) == 0 || len(entry) > 2 {
		return 0, 0, &core.ConfigurationError{Msg: "pipe range entry must have 1 or 2 elements"}
	}

	lo, err = strconv.Atoi(entry[0])
	if err != nil {
		return 0, 0, &core.ConfigurationError{Msg: "pipe range entry has a non-numeric start: " + entry[0]}
	}

	hi = lo
	if len(entry) == 2 {
		hi, err = strconv.Atoi(entry[1])
		if err != nil {
			return 0, 0, &core.ConfigurationError{Msg: "pipe range entry has a non-numeric end: " + entry[1]}
		}
	}

	if hi < lo {
		return 0, 0, &core.ConfigurationError{Msg: "pipe range entry has end before start"}
	}

	return lo, hi, nil
}

// ExpandPipeRange returns every index in [lo, hi], inclusive, as produced by
// ParsePipeRange.
func ExpandPipeRange(entry []string) ([]int, error) {
	lo, hi, err := ParsePipeRange(entry)
	if err != nil {
		return nil, err
	}
	idxs := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		idxs = append(idxs, i)
	}
	return idxs, nil
}

// floatKinds are the pipe kinds whose producing pipe is homed in the float
// register file. Everything else (including cmov, a deliberate choice
// documented in DESIGN.md) homes in the integer file.
var floatKinds = map[core.PipeKind]bool{
	core.PipeFloat:   true,
	core.PipeFAddSub: true,
	core.PipeFMAC:    true,
	core.PipeF2I:     true,
}

// DetermineRegisterFile decides which register file a pipe serving the
// given kinds is homed in. A pipe with any float-sourcing kind (float,
// faddsub, fmac, f2i) is homed in the float file; an I2F pipe stays homed in integer (it reads integer
// sources) even though it writes a float destination, mirroring
// ExecutePipe.cpp's reg_file_ == RF_INTEGER assertion for I2F units.
func DetermineRegisterFile(kinds []core.PipeKind) core.RegFile {
	for _, k := range kinds {
		if floatKinds[k] {
			return core.RegFloat
		}
	}
	return core.RegInteger
}

// HasBranch reports whether kinds includes the branch pipe kind, used to
// decide whether a misprediction predictor may be attached.
func HasBranch(kinds []core.PipeKind) bool {
	for _, k := range kinds {
		if k == core.PipeBranch {
			return true
		}
	}
	return false
}
