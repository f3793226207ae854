// Command disksim runs the distributed hard-disk collision simulator.
// Input comes either from stdin in the original text protocol or from a
// YAML scenario file (-scenario); output is the text protocol on stdout
// plus, optionally, CSV/JSON telemetry and a live WebSocket observer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/disksim"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/ioformat"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/observer"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/partition"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/telemetry"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/worldcfg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	workers := flag.Int("workers", 1, "number of logical workers (goroutines)")
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file (default: read the text protocol from stdin)")
	seed := flag.Int64("seed", 1, "seed for synthesizing any particles the input doesn't supply")
	telemetryDir := flag.String("telemetry-dir", "", "if set, write per-run telemetry (particles.csv, summary.json) to this directory")
	observeAddr := flag.String("observe", "", "if set, serve a live read-only WebSocket snapshot feed on this address (e.g. :8080)")
	debug := flag.Bool("debug", false, "dump the full particle array to stderr after every step")
	flag.Parse()

	in, scenarioWorkers, scenarioTelemetryDir, err := loadInput(*scenarioPath)
	if err != nil {
		return fmt.Errorf("disksim: %w", err)
	}
	if scenarioWorkers > 0 && !flagSet("workers") {
		*workers = scenarioWorkers
	}
	if scenarioTelemetryDir != "" && !flagSet("telemetry-dir") {
		*telemetryDir = scenarioTelemetryDir
	}

	paddedN := partition.PaddedSize(in.World.N, *workers)
	state := ioformat.Synthesize(in, paddedN, rand.New(rand.NewSource(*seed)))

	sim, err := disksim.New(in.World, *workers)
	if err != nil {
		return fmt.Errorf("disksim: %w", err)
	}
	log.Printf("disksim: run %s: N=%d L=%d r=%d S=%d workers=%d", sim.RunID, in.World.N, in.World.L, in.World.R, in.World.S, *workers)

	tel, err := telemetry.NewOutputManager(*telemetryDir)
	if err != nil {
		return fmt.Errorf("disksim: %w", err)
	}
	defer tel.Close()

	var obs *observer.Server
	if *observeAddr != "" {
		obs = observer.New(*observeAddr)
		go func() {
			if err := obs.Serve(); err != nil {
				log.Printf("disksim: observer: %v", err)
			}
		}()
	}

	out := ioformat.NewWriter(os.Stdout, in.Print())
	sim.OnStep(func(step int, real []particle.Particle) {
		if obs != nil {
			obs.Publish(step, real)
		}
		if *debug {
			spew.Fprintf(os.Stderr, "step %d: %#v\n", step, real)
		}
		if err := out.WriteStep(step, real); err != nil {
			log.Printf("disksim: write step %d: %v", step, err)
		}
	})

	ctx := context.Background()
	if err := sim.Run(ctx, state, in.World.S); err != nil {
		return fmt.Errorf("disksim: %w", err)
	}

	real := state[:in.World.N]
	if err := out.WriteFinal(in.World.S, real); err != nil {
		return fmt.Errorf("disksim: write final state: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("disksim: flush output: %w", err)
	}

	summary, records := telemetry.Summarize(sim.RunID, in.World.S, real)
	if err := tel.WriteParticles(records); err != nil {
		return fmt.Errorf("disksim: %w", err)
	}
	if err := tel.WriteSummary(summary); err != nil {
		return fmt.Errorf("disksim: %w", err)
	}

	return nil
}

// loadInput reads the run's header and any explicitly-supplied particles,
// either from a YAML scenario file or (the default) the stdin text
// protocol. It also returns the scenario's preferred worker count and
// telemetry directory (zero values if reading from stdin, which has no such
// fields) so the caller can use them as defaults a CLI flag can override.
func loadInput(scenarioPath string) (ioformat.Input, int, string, error) {
	if scenarioPath == "" {
		in, err := ioformat.ParseInput(os.Stdin)
		return in, 0, "", err
	}

	sc, err := worldcfg.FromYAML(scenarioPath)
	if err != nil {
		return ioformat.Input{}, 0, "", err
	}

	particles := make([]particle.Particle, len(sc.Particles))
	for i, row := range sc.Particles {
		particles[i] = particle.New(row.Index, row.X, row.Y, row.VX, row.VY)
	}

	in := ioformat.Input{
		World:     sc.World,
		Command:   sc.Command,
		Particles: particles,
	}

	telemetryDir := ""
	if sc.Telemetry != nil {
		telemetryDir = sc.Telemetry.Dir
	}

	return in, sc.Workers, telemetryDir, nil
}

// flagSet reports whether name was explicitly passed on the command line,
// as opposed to carrying its default value.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
