package topology

import (
	"github.com/dd0wney/cantopo/pkg/device"
)

// Position represents a 2D world-space coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Status is the liveness classification of a visual node
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// Node is the visual node derived from a device record. Nodes are
// recomputed wholesale on every snapshot and never mutated in place.
type Node struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Protocol device.Protocol `json:"protocol"`
	Position Position        `json:"position"`
	// Radius is fixed in world units; apparent size under zoom comes
	// from the view transform, which keeps hit-testing math simple.
	Radius      float64             `json:"radius"`
	FillColor   string              `json:"fillColor"`
	AccentColor string              `json:"accentColor"`
	Status      Status              `json:"status"`
	Safety      device.SafetyStatus `json:"safety,omitempty"`
	Throughput  *float64            `json:"throughput,omitempty"`
	// Connections is a forward-compatible hook; no current discovery
	// path populates edge data.
	Connections []string `json:"connections,omitempty"`
}

// Zone is the derived protocol grouping: a center point on a ring
// around the canvas center, plus the ring radius its devices sit on.
// Zones are recomputed whenever the snapshot changes.
type Zone struct {
	Protocol   device.Protocol `json:"protocol"`
	Center     Position        `json:"center"`
	RingRadius float64         `json:"ringRadius"`
	Count      int             `json:"count"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width in world units
	Height     float64 // Canvas height in world units
	NodeRadius float64 // Fixed render radius per node
}

// Layout interface for topology layout algorithms
type Layout interface {
	ComputeLayout(devices []device.Device) ([]*Node, []Zone, error)
}
