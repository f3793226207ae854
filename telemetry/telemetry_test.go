package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

func TestSummarize(t *testing.T) {
	state := []particle.Particle{
		particle.New(0, 1, 1, 3, 4),
		particle.New(1, 2, 2, 0, 0),
	}
	state[0].PColl = 2
	state[1].WColl = 1

	sum, records := Summarize("run-1", 10, state)

	assert.Equal(t, "run-1", sum.RunID)
	assert.Equal(t, 2, sum.N)
	assert.Equal(t, 10, sum.Steps)
	assert.InDelta(t, 2.5, sum.MeanSpeed, 1e-9) // (5 + 0) / 2
	assert.InDelta(t, 12.5, sum.KineticEnergy, 1e-9)
	assert.Equal(t, 2, sum.TotalPairColl)
	assert.Equal(t, 1, sum.TotalWallColl)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, records[0].PColl)
}

func TestOutputManager_DisabledWhenDirEmpty(t *testing.T) {
	om, err := NewOutputManager("")
	assert.NoError(t, err)
	assert.Nil(t, om)
	assert.NoError(t, om.WriteParticles(nil))
	assert.NoError(t, om.WriteSummary(Summary{}))
	assert.Equal(t, "", om.Dir())
	assert.NoError(t, om.Close())
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	assert.NoError(t, err)
	assert.NotNil(t, om)
	defer om.Close()

	_, records := Summarize("run-2", 1, []particle.Particle{particle.New(0, 1, 1, 1, 1)})
	assert.NoError(t, om.WriteParticles(records))
	assert.NoError(t, om.WriteParticles(records)) // second call must skip the header

	sum, _ := Summarize("run-2", 1, []particle.Particle{particle.New(0, 1, 1, 1, 1)})
	assert.NoError(t, om.WriteSummary(sum))

	assert.FileExists(t, filepath.Join(dir, "particles.csv"))
	assert.FileExists(t, filepath.Join(dir, "summary.json"))
}
