// Package main provides the entry point for oouexec-demo, a synthetic
// driver that dispatches a random instruction stream into a configurable
// execute-stage topology and reports throughput and flush statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/oouexec/core"
	"github.com/sarchlab/oouexec/latency"
	"github.com/sarchlab/oouexec/topology"
	"github.com/tebeka/atexit"
)

var (
	topologyPath = flag.String("topology", "", "Path to topology config JSON file")
	latencyPath  = flag.String("latency", "", "Path to latency table JSON file")
	numInsts     = flag.Int("n", 10000, "Number of instructions to dispatch")
	seed         = flag.Int64("seed", 1, "Random seed")
	verbose      = flag.Bool("v", false, "Verbose output")
	logEvents    = flag.Bool("log", false, "Log every insert/dispatch/issue/execute/complete/flush event")
)

func main() {
	flag.Parse()

	cfg, err := loadTopologyConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading topology config: %v\n", err)
		os.Exit(1)
	}

	lat, err := loadLatencyTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading latency table: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	engine := sim.NewSerialEngine()
	freq := 1 * sim.Hz

	var retired []core.Instruction
	topo, err := topology.Build(engine, freq, cfg, lat, rng, func(inst core.Instruction) {
		retired = append(retired, inst)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building topology: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Topology: %d issue queues, %d execution pipes\n", len(topo.Queues()), len(topo.Pipes()))
	}

	if *logEvents {
		logger := core.NewExecutionLogger(log.New(os.Stderr, "", 0))
		for _, q := range topo.Queues() {
			q.AcceptHook(logger)
		}
		for _, p := range topo.Pipes() {
			p.AcceptHook(logger)
		}
	}

	gen := newGenerator(engine, freq, topo, lat, rng, *numInsts)
	gen.TickLater()

	if err := engine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}

	report(topo, gen, retired, engine.CurrentTime())
	atexit.Exit(0)
}

func loadTopologyConfig() (*topology.Config, error) {
	if *topologyPath == "" {
		return topology.DefaultConfig(), nil
	}
	return topology.LoadConfig(*topologyPath)
}

func loadLatencyTable() (*latency.Table, error) {
	if *latencyPath == "" {
		return latency.Default(), nil
	}
	return latency.Load(*latencyPath)
}

func report(topo *topology.Topology, gen *generator, retired []core.Instruction, now sim.VTimeInSec) {
	var executed, flushed uint64
	for _, p := range topo.Pipes() {
		e, f := p.Stats()
		executed += e
		flushed += f
	}

	var issued uint64
	for _, q := range topo.Queues() {
		issued += q.Stats()
	}

	fmt.Printf("\n")
	fmt.Printf("Dispatched: %d\n", gen.dispatched)
	fmt.Printf("Issued:     %d\n", issued)
	fmt.Printf("Retired:    %d\n", len(retired))
	fmt.Printf("Executed:   %d\n", executed)
	fmt.Printf("Flushed:    %d\n", flushed)
	fmt.Printf("Cycles:     %.0f\n", float64(now))

	if len(retired) > 0 {
		fmt.Printf("IPC:        %.3f\n", float64(len(retired))/float64(now))
	}
}
