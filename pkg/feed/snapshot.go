package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/dd0wney/cantopo/pkg/device"
)

// Snapshot is one wholesale refresh of the device network: the full
// device population plus per-bus throughput. A snapshot fully
// replaces its predecessor; the feed never patches incrementally.
type Snapshot struct {
	ID         uuid.UUID                   `json:"id"`
	TakenAt    time.Time                   `json:"takenAt"`
	Devices    []device.Device             `json:"devices"`
	Throughput map[device.Protocol]float64 `json:"throughput,omitempty"`
}

// NewSnapshot builds a snapshot from a raw per-protocol payload set.
func NewSnapshot(raw device.RawSnapshot, throughput map[device.Protocol]float64, takenAt time.Time) Snapshot {
	return Snapshot{
		ID:         uuid.New(),
		TakenAt:    takenAt,
		Devices:    device.NormalizeAll(raw),
		Throughput: throughput,
	}
}

// Encode marshals a snapshot to its wire form: JSON body, snappy
// block compression.
func Encode(s Snapshot) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return snappy.Encode(nil, body), nil
}

// Decode unmarshals a wire-form snapshot.
func Decode(data []byte) (Snapshot, error) {
	body, err := snappy.Decode(nil, data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
