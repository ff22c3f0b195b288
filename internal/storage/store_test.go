package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:  []float64{0, 0.5, 1.0},
		Counts: []int{10, 12, 15},
		Series: map[string][]float64{
			"kinetic_energy": {100, 90, 80},
			"bond_fraction":  {0, 0.1, 0.2},
		},
		Metrics:    map[string]float64{"kinetic_energy": 90},
		Stats:      sim.Stats{Ticks: 100, Bonds: 3},
		TicksTaken: 100,
	}
}

func sampleInfo() RunInfo {
	return RunInfo{Scene: "grid", Seed: 42, Dt: 0.01, Ticks: 100, Integrator: "euler", Kernel: dynamo.DefaultConfig()}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(sampleInfo(), sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "grid", meta.Info.Scene)
	assert.Equal(t, uint32(42), meta.Info.Seed)
	assert.Equal(t, dynamo.DefaultConfig(), meta.Info.Kernel)
	assert.Equal(t, 15, meta.Particles)
	assert.Equal(t, 3, meta.Stats.Bonds)
	assert.Equal(t, 90.0, meta.Metrics["kinetic_energy"])

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1.0}, series.Times)
	assert.Equal(t, []string{"bond_fraction", "count", "kinetic_energy"}, series.Names())
	assert.Equal(t, []float64{10, 12, 15}, series.Columns["count"])
	assert.Equal(t, []float64{100, 90, 80}, series.Columns["kinetic_energy"])
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(sampleInfo(), sampleResult())
	require.NoError(t, err)
	_, err = st.Save(sampleInfo(), sampleResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[1].Timestamp.Before(runs[0].Timestamp))
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save(sampleInfo(), sampleResult())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, runID, "series.csv"))
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, sampleResult()))

	want := "time,count,bond_fraction,kinetic_energy\n" +
		"0.000000,10,0,100\n" +
		"0.500000,12,0.1,90\n" +
		"1.000000,15,0.2,80\n"
	assert.Equal(t, want, buf.String())
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	particles := []dynamo.Particle{{Kind: dynamo.Blue, Mass: 1.2, CollidingWith: dynamo.NoRef, BondingWith: dynamo.NoRef}}

	require.NoError(t, ExportJSON(path, sampleInfo(), sampleResult(), particles))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got ExportData
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 100, got.Ticks)
	assert.Equal(t, []int{10, 12, 15}, got.Counts)
	assert.Equal(t, particles, got.Particles)
}

func TestSeriesResult(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(sampleInfo(), sampleResult())
	require.NoError(t, err)
	meta, err := st.Load(runID)
	require.NoError(t, err)
	series, err := st.LoadSeries(runID)
	require.NoError(t, err)

	res := series.Result(meta)
	assert.Equal(t, []int{10, 12, 15}, res.Counts)
	assert.Equal(t, []float64{0, 0.1, 0.2}, res.Series["bond_fraction"])
	assert.NotContains(t, res.Series, "count")
	assert.Equal(t, 100, res.TicksTaken)

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, res))
	assert.Contains(t, buf.String(), "time,count,bond_fraction,kinetic_energy")
}
