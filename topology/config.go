// Package topology builds a core's issue queues and execution pipes from a
// JSON topology description, mirroring ExecuteFactory::onConfiguring and
// bindLate (Execute.cpp) but replacing their quadratic name-matching with a
// single indexed pass (spec §9's design note).
package topology

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the JSON-level description of a core's execute stage: which
// pipe kinds each physical pipe serves, and how pipes are grouped into
// issue queues. The field names and shapes are taken verbatim from
// Execute.cpp's getPipeTopology calls.
type Config struct {
	// Pipelines lists, for each execution pipe index, the pipe kinds it
	// serves (a pipe may serve more than one kind, e.g.
	// ["int", "mul", "i2f", "cmov"]).
	Pipelines [][]string `json:"pipelines"`

	// IssueQueueToPipeMap gives, for each issue queue in order, the
	// inclusive range of pipe indices it feeds, as a 1- or 2-element
	// [start] / [start, end] entry.
	IssueQueueToPipeMap [][]string `json:"issue_queue_to_pipe_map"`

	// IssueQueueAlias optionally renames "iqN" to a friendlier name:
	// [["0", "iq_int"], ...].
	IssueQueueAlias [][2]string `json:"issue_queue_alias,omitempty"`

	// ExePipeAlias optionally renames "exeN" to a friendlier name.
	ExePipeAlias [][2]string `json:"exe_pipe_alias,omitempty"`

	// IssueQueueCapacity gives each issue queue's entry capacity, indexed
	// the same way as IssueQueueToPipeMap. Queues beyond the slice length,
	// or an explicit 0, fall back to DefaultIssueQueueCapacity.
	IssueQueueCapacity []int `json:"issue_queue_capacity,omitempty"`

	// ExecuteTime gives a fixed execute time, in cycles, for named exe
	// pipes ("exe0", ...). Only consulted when IgnoreInstExecuteTime is
	// set for that pipe.
	ExecuteTime map[string]uint32 `json:"execute_time,omitempty"`

	// IgnoreInstExecuteTime, when true for a named exe pipe, makes that
	// pipe always take ExecuteTime[name] cycles instead of consulting the
	// dispatched instruction's own ExecuteLatency.
	IgnoreInstExecuteTime map[string]bool `json:"ignore_inst_execute_time,omitempty"`

	// RegisterFileSizes gives the physical register count for "INTEGER"
	// and "FLOAT". Both default to 64 if omitted.
	RegisterFileSizes map[string]int `json:"register_file_sizes,omitempty"`
}

// DefaultIssueQueueCapacity is used for any issue queue whose capacity is
// not explicitly configured.
const DefaultIssueQueueCapacity = 8

// DefaultRegisterFileSize is used for any register file whose size is not
// explicitly configured.
const DefaultRegisterFileSize = 64

// DefaultConfig returns the topology documented inline in Execute.cpp's
// bindLate: a 10-pipe core grouped into three issue queues (integer,
// float, branch).
func DefaultConfig() *Config {
	return &Config{
		Pipelines: [][]string{
			{"int"},
			{"int", "div"},
			{"int", "mul"},
			{"int", "mul", "i2f", "cmov"},
			{"int"},
			{"int"},
			{"float", "faddsub", "fmac"},
			{"float", "f2i"},
			{"br"},
			{"br"},
		},
		IssueQueueToPipeMap: [][]string{
			{"0", "5"},
			{"6", "7"},
			{"8", "9"},
		},
	}
}

// LoadConfig reads a Config from a JSON file, starting from DefaultConfig()
// so a file only needs to mention what it overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse topology config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize topology config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write topology config: %w", err)
	}
	return nil
}

func (c *Config) registerFileSize(name string) int {
	if c.RegisterFileSizes != nil {
		if n, ok := c.RegisterFileSizes[name]; ok {
			return n
		}
	}
	return DefaultRegisterFileSize
}

func (c *Config) issueQueueCapacity(idx int) int {
	if idx < len(c.IssueQueueCapacity) && c.IssueQueueCapacity[idx] > 0 {
		return c.IssueQueueCapacity[idx]
	}
	return DefaultIssueQueueCapacity
}

func aliasLookup(aliases [][2]string, idx int) (string, bool) {
	key := fmt.Sprintf("%d", idx)
	for _, pair := range aliases {
		if pair[0] == key {
			return pair[1], true
		}
	}
	return "", false
}
