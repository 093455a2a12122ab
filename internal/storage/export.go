package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/springsim/internal/sim"
)

type ExportData struct {
	Run        RunMetadata        `json:"run"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Positions  []float64          `json:"positions"`
	Velocities []float64          `json:"velocities"`
	Values     [][]float64        `json:"values"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Run:        meta,
		Steps:      len(result.Times),
		Times:      result.Times,
		Positions:  result.Positions,
		Velocities: result.Velocities,
		Values:     make([][]float64, len(result.Values)),
		Metrics:    result.Metrics,
	}
	for i, v := range result.Values {
		data.Values[i] = v.Slice()
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, result)
}

func WriteJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

func ExportCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, result)
}
