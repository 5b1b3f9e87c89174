// Package store persists run artifacts: per-run metadata, the thermodynamic
// quantity log, and tuning sweep reports.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/mdsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RebuildCounts summarizes the scheduler activity over a run.
type RebuildCounts struct {
	Normal    int `json:"normal"`
	Forced    int `json:"forced"`
	Dangerous int `json:"dangerous"`
}

type RunMetadata struct {
	ID          string        `json:"id"`
	Preset      string        `json:"preset"`
	Timestamp   time.Time     `json:"timestamp"`
	Particles   int           `json:"particles"`
	Index       string        `json:"index"`
	RBuff       float64       `json:"r_buff"`
	CheckPeriod int           `json:"check_period"`
	Dt          float64       `json:"dt"`
	KT          float64       `json:"kt"`
	Seed        int64         `json:"seed"`
	Steps       int64         `json:"steps"`
	Throughput  float64       `json:"throughput"`
	Rebuilds    RebuildCounts `json:"rebuilds"`
}

// SaveRun writes metadata.json and thermo.csv under a fresh run directory
// and returns the generated run ID.
func (s *Store) SaveRun(meta RunMetadata, samples []sim.StepInfo) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	csvFile, err := os.Create(filepath.Join(runDir, "thermo.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"step", "time", "potential", "kinetic", "temperature"}); err != nil {
		return "", err
	}
	for _, sm := range samples {
		temp := 0.0
		if meta.Particles > 0 {
			temp = 2 * sm.Kinetic / (3 * float64(meta.Particles))
		}
		row := []string{
			strconv.FormatInt(sm.Step, 10),
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.FormatFloat(sm.Potential, 'f', 6, 64),
			strconv.FormatFloat(sm.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(temp, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List scans the base directory for saved runs. Directories without
// readable metadata are skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
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

// LoadThermo reads the quantity log back as one StepInfo per sampled step.
func (s *Store) LoadThermo(runID string) ([]sim.StepInfo, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "thermo.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.StepInfo{}, nil
	}

	samples := make([]sim.StepInfo, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		step, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			continue
		}
		t, _ := strconv.ParseFloat(record[1], 64)
		pe, _ := strconv.ParseFloat(record[2], 64)
		ke, _ := strconv.ParseFloat(record[3], 64)
		samples = append(samples, sim.StepInfo{Step: step, Time: t, Potential: pe, Kinetic: ke})
	}
	return samples, nil
}
