package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

var ErrNoRuns = errors.New("storage: no saved runs")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SpringParams struct {
	Tension     float64 `json:"tension"`
	Friction    float64 `json:"friction"`
	Mass        float64 `json:"mass"`
	Precision   float64 `json:"precision"`
	StepRate    float64 `json:"step_rate"`
	MaxSubsteps int     `json:"max_substeps"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Kind       string             `json:"kind"`
	From       []float64          `json:"from"`
	To         []float64          `json:"to"`
	Spring     SpringParams       `json:"spring"`
	Settled    bool               `json:"settled"`
	SettleTime float64            `json:"settle_time"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the trajectory of result under a fresh run ID.
// ID, Timestamp and the result fields of meta are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Settled = result.Settled
	meta.SettleTime = result.SettleTime
	meta.Metrics = result.Metrics
	if meta.Kind == "" {
		meta.Kind = result.Final().Kind().String()
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV writes one row per sample: time, position, velocity, then
// each component of the visible value.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if len(result.Times) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "pos", "vel"}
	for i := 0; i < result.Values[0].Len(); i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Positions[i], 'f', 6, 64),
			strconv.FormatFloat(result.Velocities[i], 'f', 6, 64),
		}
		for _, val := range result.Values[i].Slice() {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrNoRuns
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads a saved trajectory back. Metrics come from the metadata.
func (s *Store) LoadStates(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{
		Metrics:    meta.Metrics,
		Settled:    meta.Settled,
		SettleTime: meta.SettleTime,
	}
	if len(records) < 2 {
		return result, nil
	}

	vector := meta.Kind == dynamo.KindVector.String()
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		nums := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states.csv row %d: %w", i, err)
			}
			nums = append(nums, val)
		}

		result.Times = append(result.Times, nums[0])
		result.Positions = append(result.Positions, nums[1])
		result.Velocities = append(result.Velocities, nums[2])
		if vector {
			result.Values = append(result.Values, dynamo.Vector(nums[3:]...))
		} else {
			result.Values = append(result.Values, dynamo.Scalar(nums[3]))
		}
	}
	result.StepsTaken = len(result.Times) - 1

	return result, nil
}
