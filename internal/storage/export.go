package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

type ExportData struct {
	Info      RunInfo              `json:"info"`
	Ticks     int                  `json:"ticks"`
	Times     []float64            `json:"times"`
	Counts    []int                `json:"counts"`
	Series    map[string][]float64 `json:"series"`
	Metrics   map[string]float64   `json:"metrics"`
	Stats     sim.Stats            `json:"stats"`
	Particles []dynamo.Particle    `json:"particles,omitempty"`
}

func newExportData(info RunInfo, result *sim.Result, particles []dynamo.Particle) ExportData {
	return ExportData{
		Info:      info,
		Ticks:     result.TicksTaken,
		Times:     result.Times,
		Counts:    result.Counts,
		Series:    result.Series,
		Metrics:   result.Metrics,
		Stats:     result.Stats,
		Particles: particles,
	}
}

// ExportJSON writes the run, and optionally the final particle state, to path.
func ExportJSON(path string, info RunInfo, result *sim.Result, particles []dynamo.Particle) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result, particles)
}

func WriteJSON(out io.Writer, info RunInfo, result *sim.Result, particles []dynamo.Particle) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result, particles))
}
