package topology

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/coreutils"
	"github.com/sarchlab/oouexec/issuequeue"
	"github.com/sarchlab/oouexec/latency"
	"github.com/sarchlab/oouexec/pipe"
)

// Topology owns every issue queue and execution pipe built from a Config,
// plus the routing tables needed to dispatch an instruction and to fan a
// flush out to every component that might be holding one of its victims.
type Topology struct {
	queues       []*issuequeue.IssueQueue
	pipes        []*pipe.ExecutionPipe
	queueForKind map[core.PipeKind]*issuequeue.IssueQueue
	scoreboard   *core.Scoreboard
}

// Scoreboard returns the register-readiness tracker shared by every pipe
// and queue in this topology, so a renamer outside this core's boundary can
// mark freshly-allocated destinations not-ready before dispatch.
func (t *Topology) Scoreboard() *core.Scoreboard { return t.scoreboard }

// Queues returns every issue queue in topology order (iq0, iq1, ...).
func (t *Topology) Queues() []*issuequeue.IssueQueue { return t.queues }

// Pipes returns every execution pipe in topology order (exe0, exe1, ...).
func (t *Topology) Pipes() []*pipe.ExecutionPipe { return t.pipes }

// QueueForKind returns the issue queue that accepts instructions of the
// given pipe kind, or nil if no pipe in the topology serves it.
func (t *Topology) QueueForKind(kind core.PipeKind) *issuequeue.IssueQueue {
	return t.queueForKind[kind]
}

// Dispatch routes inst to the issue queue serving its PipeKind. Returns a
// *core.ConfigurationError if no pipe in the topology serves that kind;
// this can only happen if the renamer and the topology disagree about the
// instruction set, which is a setup error, not a runtime one.
func (t *Topology) Dispatch(inst core.Instruction) error {
	q := t.QueueForKind(inst.PipeKind())
	if q == nil {
		return &core.ConfigurationError{
			Msg: fmt.Sprintf("no issue queue routes pipe kind %s", inst.PipeKind()),
		}
	}
	q.Dispatch(inst)
	return nil
}

// Flush fans criteria out to every issue queue and execution pipe, removing
// every instruction it matches wherever it is currently resident. Returns
// the total number of instructions discarded.
func (t *Topology) Flush(criteria core.FlushCriteria) int {
	total := 0
	for _, q := range t.queues {
		total += q.Flush(criteria)
	}
	for _, p := range t.pipes {
		total += p.Flush(criteria)
	}
	return total
}

// Build constructs a Topology from cfg: first it creates every issue queue
// and execution pipe (Configure), then it wires each pipe into its owning
// queue's routing table (bindLate). onComplete is invoked whenever any pipe
// in the topology retires an instruction; the topology itself supplies
// onMispredict, fanning a reported misprediction out as a Flush. rng drives
// the random misprediction injector attached to every branch pipe. lat
// supplies the fallback fixed execute time for an ignore_inst_execute_time
// pipe whose config omits an explicit execute_time.
func Build(
	engine sim.Engine,
	freq sim.Freq,
	cfg *Config,
	lat *latency.Table,
	rng *rand.Rand,
	onComplete func(inst core.Instruction),
) (*Topology, error) {
	if len(cfg.Pipelines) == 0 {
		return nil, &core.ConfigurationError{Msg: "topology has no pipelines"}
	}
	if len(cfg.IssueQueueToPipeMap) == 0 {
		return nil, &core.ConfigurationError{Msg: "topology has no issue_queue_to_pipe_map"}
	}

	t := &Topology{
		queueForKind: make(map[core.PipeKind]*issuequeue.IssueQueue),
		scoreboard: core.NewScoreboard(map[core.RegFile]int{
			core.RegInteger: cfg.registerFileSize("INTEGER"),
			core.RegFloat:   cfg.registerFileSize("FLOAT"),
		}),
	}
	t.scoreboard.MarkAllReady(core.RegInteger)
	t.scoreboard.MarkAllReady(core.RegFloat)

	pipeToQueueIdx := make([]int, len(cfg.Pipelines))
	for i := range pipeToQueueIdx {
		pipeToQueueIdx[i] = -1
	}

	// Configure: create every issue queue and expand its pipe range.
	for iqIdx, rangeEntry := range cfg.IssueQueueToPipeMap {
		idxs, err := coreutils.ExpandPipeRange(rangeEntry)
		if err != nil {
			return nil, err
		}

		name := fmt.Sprintf("iq%d", iqIdx)
		if alias, ok := aliasLookup(cfg.IssueQueueAlias, iqIdx); ok {
			name = alias
		}

		q := issuequeue.New(name, engine, freq, cfg.issueQueueCapacity(iqIdx), t.scoreboard)
		t.queues = append(t.queues, q)

		for _, pipeIdx := range idxs {
			if pipeIdx < 0 || pipeIdx >= len(cfg.Pipelines) {
				return nil, &core.ConfigurationError{
					Msg: fmt.Sprintf("issue_queue_to_pipe_map references pipe index %d out of range", pipeIdx),
				}
			}
			if pipeToQueueIdx[pipeIdx] != -1 {
				return nil, &core.ConfigurationError{
					Msg: fmt.Sprintf("pipe index %d is claimed by more than one issue queue", pipeIdx),
				}
			}
			pipeToQueueIdx[pipeIdx] = iqIdx
		}
	}
	for pipeIdx, iqIdx := range pipeToQueueIdx {
		if iqIdx == -1 {
			return nil, &core.ConfigurationError{
				Msg: fmt.Sprintf("pipe index %d is not claimed by any issue queue", pipeIdx),
			}
		}
	}

	// Configure: create every execution pipe.
	for pipeIdx, kindNames := range cfg.Pipelines {
		kinds := make([]core.PipeKind, 0, len(kindNames))
		for _, kn := range kindNames {
			k, err := core.ParsePipeKind(kn)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, k)
		}

		name := fmt.Sprintf("exe%d", pipeIdx)
		if alias, ok := aliasLookup(cfg.ExePipeAlias, pipeIdx); ok {
			name = alias
		}

		regFile := coreutils.DetermineRegisterFile(kinds)
		opts := []pipe.Option{}

		if regFile == core.RegInteger && hasAny(kinds, core.PipeI2F) {
			opts = append(opts, pipe.WithTransferDest(core.RegFloat))
		}
		if regFile == core.RegFloat && hasAny(kinds, core.PipeF2I) {
			opts = append(opts, pipe.WithTransferDest(core.RegInteger))
		}

		if cfg.IgnoreInstExecuteTime[name] {
			fixed := cfg.ExecuteTime[name]
			if fixed == 0 {
				for _, k := range kinds {
					if d := lat.For(k); d > fixed {
						fixed = d
					}
				}
			}
			opts = append(opts, pipe.WithFixedExecuteTime(fixed))
		}

		var onMispredict func(core.FlushCriteria)
		if coreutils.HasBranch(kinds) {
			opts = append(opts, pipe.WithMispredictPredictor(pipe.RandomMispredictor(rng, 20)))
			onMispredict = func(criteria core.FlushCriteria) { t.Flush(criteria) }
		}

		p := pipe.New(name, engine, freq, kinds, regFile, t.scoreboard,
			onComplete, onMispredict, opts...)
		t.pipes = append(t.pipes, p)
	}

	// bindLate: route each pipe into its owning queue, and index the
	// kind -> queue table dispatch uses.
	for pipeIdx, p := range t.pipes {
		q := t.queues[pipeToQueueIdx[pipeIdx]]
		for _, k := range p.Kinds() {
			q.BindRoute(k, p)
			t.queueForKind[k] = q
		}
	}

	return t, nil
}

func hasAny(kinds []core.PipeKind, target core.PipeKind) bool {
	for _, k := range kinds {
		if k == target {
			return true
		}
	}
	return false
}
