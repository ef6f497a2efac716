// Package latency provides the per-pipe-kind default execute-latency table
// consulted when a topology does not override an individual pipe's timing.
// Adapted from timing/latency/config.go's JSON-configurable TimingConfig,
// keyed here by core.PipeKind instead of a fixed per-opcode field list.
package latency

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/oouexec/core"
)

// Table holds the default execute latency, in cycles, for each pipe kind.
type Table struct {
	ALU             uint32 `json:"alu_latency"`
	Multiply        uint32 `json:"multiply_latency"`
	Divide          uint32 `json:"divide_latency"`
	Branch          uint32 `json:"branch_latency"`
	IntToFloat      uint32 `json:"int_to_float_latency"`
	FloatToInt      uint32 `json:"float_to_int_latency"`
	Float           uint32 `json:"float_latency"`
	FloatAddSub     uint32 `json:"float_addsub_latency"`
	FloatMAC        uint32 `json:"float_mac_latency"`
	ConditionalMove uint32 `json:"cmov_latency"`
}

// Default returns a Table with latencies representative of a generic
// out-of-order core, matching the magnitude (if not the exact values) of
// DefaultTimingConfig's M2-based estimates.
func Default() *Table {
	return &Table{
		ALU:             1,
		Multiply:        3,
		Divide:          12,
		Branch:          1,
		IntToFloat:      2,
		FloatToInt:      2,
		Float:           3,
		FloatAddSub:     3,
		FloatMAC:        4,
		ConditionalMove: 1,
	}
}

// Load reads a Table from a JSON file, starting from Default() so a config
// only needs to mention the latencies it overrides.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read latency table: %w", err)
	}

	t := Default()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse latency table: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Save writes the table to a JSON file.
func (t *Table) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize latency table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write latency table: %w", err)
	}
	return nil
}

// Validate checks that every latency is at least 1 cycle; a zero-cycle
// execute time is an invariant violation the moment it reaches a pipe
// (core.Assert in pipe.Insert), so it is rejected earlier here instead.
func (t *Table) Validate() error {
	for _, f := range []struct {
		name string
		v    uint32
	}{
		{"alu_latency", t.ALU},
		{"multiply_latency", t.Multiply},
		{"divide_latency", t.Divide},
		{"branch_latency", t.Branch},
		{"int_to_float_latency", t.IntToFloat},
		{"float_to_int_latency", t.FloatToInt},
		{"float_latency", t.Float},
		{"float_addsub_latency", t.FloatAddSub},
		{"float_mac_latency", t.FloatMAC},
		{"cmov_latency", t.ConditionalMove},
	} {
		if f.v == 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
	}
	return nil
}

// For returns the default latency for the given pipe kind.
func (t *Table) For(kind core.PipeKind) uint32 {
	switch kind {
	case core.PipeInt:
		return t.ALU
	case core.PipeMul:
		return t.Multiply
	case core.PipeDiv:
		return t.Divide
	case core.PipeBranch:
		return t.Branch
	case core.PipeI2F:
		return t.IntToFloat
	case core.PipeF2I:
		return t.FloatToInt
	case core.PipeFloat:
		return t.Float
	case core.PipeFAddSub:
		return t.FloatAddSub
	case core.PipeFMAC:
		return t.FloatMAC
	case core.PipeCMov:
		return t.ConditionalMove
	default:
		return 1
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := *t
	return &cp
}
