// Package telemetry computes end-of-run summary statistics over the final
// particle state and writes them to disk for external analysis -- entirely
// separate from the simulation itself, so enabling it can never perturb a
// run's determinism.
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// ParticleRecord is one particle's final row, tagged for CSV export.
type ParticleRecord struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	PColl int     `csv:"p_coll"`
	WColl int     `csv:"w_coll"`
}

// Summary is the aggregate over every particle at the end of a run.
type Summary struct {
	RunID          string  `json:"run_id"`
	N              int     `json:"n"`
	Steps          int     `json:"steps"`
	MeanSpeed      float64 `json:"mean_speed"`
	VarianceSpeed  float64 `json:"variance_speed"`
	KineticEnergy  float64 `json:"kinetic_energy"`
	TotalPairColl  int     `json:"total_pair_collisions"`
	TotalWallColl  int     `json:"total_wall_collisions"`
}

// Summarize computes Summary and the per-particle CSV records over state
// (assumed to be the first N, real, particles of a finished run).
func Summarize(runID string, steps int, state []particle.Particle) (Summary, []ParticleRecord) {
	records := make([]ParticleRecord, len(state))
	speeds := make([]float64, len(state))

	var energy float64
	var pColl, wColl int

	for i, p := range state {
		records[i] = ParticleRecord{
			Index: p.Index,
			X:     p.X,
			Y:     p.Y,
			VX:    p.VX,
			VY:    p.VY,
			PColl: p.PColl,
			WColl: p.WColl,
		}
		speeds[i] = p.Speed()
		energy += p.KineticEnergy()
		pColl += p.PColl
		wColl += p.WColl
	}

	mean, variance := stat.MeanVariance(speeds, nil)

	return Summary{
		RunID:         runID,
		N:             len(state),
		Steps:         steps,
		MeanSpeed:     mean,
		VarianceSpeed: variance,
		KineticEnergy: energy,
		TotalPairColl: pColl,
		TotalWallColl: wColl,
	}, records
}
