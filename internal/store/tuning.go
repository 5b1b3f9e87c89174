package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/mdsim/internal/tuner"
)

// TuningRecord wraps a sweep report with the context needed to interpret
// it later.
type TuningRecord struct {
	ID        string        `json:"id"`
	Preset    string        `json:"preset"`
	Timestamp time.Time     `json:"timestamp"`
	Particles int           `json:"particles"`
	Index     string        `json:"index"`
	Report    *tuner.Report `json:"report"`
}

// SaveTuning writes tuning.json and sweep.csv under a fresh directory and
// returns the generated ID.
func (s *Store) SaveTuning(rec TuningRecord) (string, error) {
	id := fmt.Sprintf("tune_%s_%d", rec.Preset, time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	rec.ID = id
	rec.Timestamp = time.Now()

	jsonFile, err := os.Create(filepath.Join(dir, "tuning.json"))
	if err != nil {
		return "", err
	}
	defer jsonFile.Close()

	enc := json.NewEncoder(jsonFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "sweep.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"r_buff", "throughput", "min_interval"}); err != nil {
		return "", err
	}
	for _, sample := range rec.Report.Samples {
		row := []string{
			strconv.FormatFloat(sample.RBuff, 'f', 4, 64),
			strconv.FormatFloat(sample.Throughput, 'f', 2, 64),
			strconv.Itoa(sample.MinInterval),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return id, nil
}

// LoadTuning reads a saved sweep back.
func (s *Store) LoadTuning(id string) (*TuningRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "tuning.json"))
	if err != nil {
		return nil, err
	}

	var rec TuningRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
