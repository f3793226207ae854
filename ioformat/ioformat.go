// Package ioformat implements the text wire protocol (spec.md section 6):
// reading the header and supplied particles from a stream, synthesizing
// any particles the input left unsupplied, and formatting per-step and
// final-state output lines.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/worldcfg"
)

// Input is the parsed header plus whatever particles the stream supplied;
// Particles may be shorter than World.N.
type Input struct {
	World     worldcfg.World
	Command   string
	Particles []particle.Particle
}

// Print reports whether the command word requests a line per particle per
// step, as opposed to only the final-state lines.
func (in Input) Print() bool { return in.Command == "print" }

// ParseInput reads the header line `N L r S command` followed by up to N
// `index x y vx vy` lines from r, exactly spec.md section 6's format. It
// does not synthesize missing particles -- callers needing a full particle
// set call Synthesize on the result.
func ParseInput(r io.Reader) (Input, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return Input{}, fmt.Errorf("ioformat: missing header line")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 5 {
		return Input{}, fmt.Errorf("ioformat: header wants 5 fields, got %d", len(fields))
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return Input{}, fmt.Errorf("ioformat: parse N: %w", err)
	}
	l, err := strconv.Atoi(fields[1])
	if err != nil {
		return Input{}, fmt.Errorf("ioformat: parse L: %w", err)
	}
	radius, err := strconv.Atoi(fields[2])
	if err != nil {
		return Input{}, fmt.Errorf("ioformat: parse r: %w", err)
	}
	s, err := strconv.Atoi(fields[3])
	if err != nil {
		return Input{}, fmt.Errorf("ioformat: parse S: %w", err)
	}
	world, err := worldcfg.New(n, l, radius, s)
	if err != nil {
		return Input{}, fmt.Errorf("ioformat: %w", err)
	}

	in := Input{World: world, Command: fields[4]}

	for len(in.Particles) < n && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p, err := parseParticleLine(line)
		if err != nil {
			return Input{}, fmt.Errorf("ioformat: particle line %d: %w", len(in.Particles), err)
		}
		in.Particles = append(in.Particles, p)
	}
	if err := sc.Err(); err != nil {
		return Input{}, fmt.Errorf("ioformat: read input: %w", err)
	}

	return in, nil
}

func parseParticleLine(line string) (particle.Particle, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return particle.Particle{}, fmt.Errorf("want 5 fields, got %d", len(fields))
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return particle.Particle{}, fmt.Errorf("index: %w", err)
	}
	vals := make([]float64, 4)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return particle.Particle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return particle.New(idx, vals[0], vals[1], vals[2], vals[3]), nil
}

// Synthesize returns a full particle.New(idx, x, y, vx, vy) for every index
// in [0, N), padded up to paddedN with entries whose index is their slot
// and whose position and velocity are zero: the first len(in.Particles) indices come from the input, the rest are drawn
// from rng by uniform sampling exactly as spec.md section 6 specifies
// (position ~ U[r, L-r] per axis, velocity magnitude ~ U[L/(8r), L/4] per
// axis, independently for each axis). rng is caller-owned so a run is
// reproducible given a fixed seed, rather than relying on any package-level
// random source.
func Synthesize(in Input, paddedN int, rng *rand.Rand) []particle.Particle {
	n := in.World.N
	side := in.World.Side()
	r := in.World.Radius()

	out := make([]particle.Particle, paddedN)
	copy(out, in.Particles)

	for i := len(in.Particles); i < n; i++ {
		x := r + rng.Float64()*(side-2*r)
		y := r + rng.Float64()*(side-2*r)
		vLo := side / (8 * r)
		vHi := side / 4
		vx := vLo + rng.Float64()*(vHi-vLo)
		vy := vLo + rng.Float64()*(vHi-vLo)
		out[i] = particle.New(i, x, y, vx, vy)
	}
	for i := n; i < paddedN; i++ {
		out[i] = particle.New(i, 0, 0, 0, 0)
	}
	return out
}
