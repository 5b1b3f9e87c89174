package store

import (
	"encoding/json"
	"os"

	"github.com/san-kum/mdsim/internal/md"
)

// SnapshotData is the on-disk form of a particle snapshot.
type SnapshotData struct {
	Box      md.Vec   `json:"box"`
	Periodic [3]bool  `json:"periodic"`
	Pos      []md.Vec `json:"pos"`
	Type     []int    `json:"type,omitempty"`
}

// ExportSnapshot writes the particle configuration as JSON.
func ExportSnapshot(path string, snap *md.Snapshot) error {
	data := SnapshotData{
		Box:      snap.Box.L,
		Periodic: snap.Box.Periodic,
		Pos:      snap.Pos,
		Type:     snap.Type,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ImportSnapshot reads a configuration written by ExportSnapshot.
func ImportSnapshot(path string) (*md.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	return &md.Snapshot{
		Pos:  data.Pos,
		Type: data.Type,
		Box:  md.Box{L: data.Box, Periodic: data.Periodic},
	}, nil
}
