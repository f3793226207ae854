package ioformat

import (
	"bufio"
	"io"
	"strconv"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// Writer formats per-step and final-state lines exactly as spec.md section
// 6 specifies: print-mode emits `i j x y vx vy` for every particle at every
// step; the final state always emits `S j x y vx vy pColl wColl` for every
// particle, regardless of the command word.
type Writer struct {
	w     *bufio.Writer
	print bool
}

// NewWriter wraps w, buffering output until Close flushes it. print
// selects whether WriteStep emits anything (the "print" command word).
func NewWriter(w io.Writer, print bool) *Writer {
	return &Writer{w: bufio.NewWriter(w), print: print}
}

// WriteStep emits one line per particle in state for step index i, in
// print mode only; it is a no-op otherwise so callers don't need to branch
// on the command word themselves.
func (out *Writer) WriteStep(i int, state []particle.Particle) error {
	if !out.print {
		return nil
	}
	for _, p := range state {
		if _, err := out.w.WriteString(strconv.Itoa(i)); err != nil {
			return err
		}
		if err := out.w.WriteByte(' '); err != nil {
			return err
		}
		if err := writeParticleLine(out.w, p); err != nil {
			return err
		}
	}
	return nil
}

// WriteFinal emits the always-present final-state line for every particle
// in state, tagged with step count s and including the collision counters.
func (out *Writer) WriteFinal(s int, state []particle.Particle) error {
	for _, p := range state {
		if _, err := out.w.WriteString(strconv.Itoa(s)); err != nil {
			return err
		}
		if err := out.w.WriteByte(' '); err != nil {
			return err
		}
		if _, err := out.w.WriteString(p.FullString()); err != nil {
			return err
		}
		if err := out.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered output.
func (out *Writer) Close() error { return out.w.Flush() }

func writeParticleLine(w *bufio.Writer, p particle.Particle) error {
	if _, err := w.WriteString(p.String()); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
