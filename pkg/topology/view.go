package topology

import (
	"math"
	"sync"
	"time"

	"github.com/dd0wney/cantopo/pkg/device"
)

// View is the explicit owned state of the topology surface: the
// current visual nodes, the transform, and the selection. The render
// loop reads it by reference every frame; snapshot updates and
// pointer events mutate it. A single RWMutex covers the Go
// embodiment's two writers (feed consumer and UI events) racing the
// frame reader.
type View struct {
	mu sync.RWMutex

	layout     Layout
	nodes      []*Node
	zones      []Zone
	devices    map[string]device.Device
	throughput map[device.Protocol]float64
	takenAt    time.Time

	transform  *Transform
	selectedID string

	// onSelect is invoked on every selection change with the new
	// selection ("" means cleared). It feeds the external details
	// panel collaborator.
	onSelect func(id string)
}

// Frame is an immutable read of the view for one render pass. Node
// pointers are shared: nodes are replaced wholesale, never mutated.
type Frame struct {
	Nodes      []*Node
	Zones      []Zone
	Transform  Transform
	SelectedID string
	Throughput map[device.Protocol]float64
	TakenAt    time.Time
}

// NewView creates a view over the given layout engine and transform.
func NewView(layout Layout, transform *Transform) *View {
	if transform == nil {
		transform = NewTransform(0, 0, 0)
	}
	return &View{
		layout:    layout,
		transform: transform,
		devices:   make(map[string]device.Device),
	}
}

// OnSelect registers the selection-change callback.
func (v *View) OnSelect(fn func(id string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onSelect = fn
}

// SetSnapshot replaces the device population wholesale and recomputes
// the layout. Per-protocol throughput annotations are applied to the
// fresh nodes. A selection pointing at a device that vanished from
// the snapshot is cleared.
func (v *View) SetSnapshot(devices []device.Device, throughput map[device.Protocol]float64, takenAt time.Time) error {
	nodes, zones, err := v.layout.ComputeLayout(devices)
	if err != nil {
		return err
	}

	for _, n := range nodes {
		if mps, ok := throughput[n.Protocol]; ok {
			rate := mps
			n.Throughput = &rate
		}
	}

	byKey := make(map[string]device.Device, len(devices))
	for _, d := range devices {
		byKey[d.Key()] = d
	}

	v.mu.Lock()
	v.nodes = nodes
	v.zones = zones
	v.devices = byKey
	v.throughput = throughput
	v.takenAt = takenAt
	cleared := false
	if v.selectedID != "" {
		if _, still := byKey[v.selectedID]; !still {
			v.selectedID = ""
			cleared = true
		}
	}
	fn := v.onSelect
	v.mu.Unlock()

	if cleared && fn != nil {
		fn("")
	}
	return nil
}

// HandleClick takes a pointer event in screen coordinates, converts
// it through the inverse transform, and selects the first node (in
// layout order) whose radius contains the point. A click on empty
// canvas clears the selection. Returns the resulting selection.
func (v *View) HandleClick(sx, sy float64) string {
	v.mu.Lock()
	world := v.transform.ScreenToWorld(Position{X: sx, Y: sy})

	hit := ""
	for _, n := range v.nodes {
		dx := world.X - n.Position.X
		dy := world.Y - n.Position.Y
		if math.Hypot(dx, dy) <= n.Radius {
			hit = n.ID
			break
		}
	}

	changed := hit != v.selectedID
	v.selectedID = hit
	fn := v.onSelect
	v.mu.Unlock()

	if changed && fn != nil {
		fn(hit)
	}
	return hit
}

// ZoomIn zooms the transform in one step.
func (v *View) ZoomIn() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.ZoomIn()
}

// ZoomOut zooms the transform out one step.
func (v *View) ZoomOut() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.ZoomOut()
}

// PanBy shifts the viewport by screen pixels.
func (v *View) PanBy(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.PanBy(dx, dy)
}

// ResetView restores the default transform and clears the selection.
func (v *View) ResetView() {
	v.mu.Lock()
	v.transform.Reset()
	changed := v.selectedID != ""
	v.selectedID = ""
	fn := v.onSelect
	v.mu.Unlock()

	if changed && fn != nil {
		fn("")
	}
}

// SelectedID returns the current selection, "" when none.
func (v *View) SelectedID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selectedID
}

// SelectedNode returns the selected node and its source device
// record, or ok=false when nothing is selected.
func (v *View) SelectedNode() (node *Node, dev device.Device, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selectedID == "" {
		return nil, device.Device{}, false
	}
	for _, n := range v.nodes {
		if n.ID == v.selectedID {
			return n, v.devices[n.ID], true
		}
	}
	return nil, device.Device{}, false
}

// Frame returns a consistent read of the view for one render pass.
func (v *View) Frame() Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Frame{
		Nodes:      v.nodes,
		Zones:      v.zones,
		Transform:  *v.transform,
		SelectedID: v.selectedID,
		Throughput: v.throughput,
		TakenAt:    v.takenAt,
	}
}

// StatusCounts returns the node count per derived status.
func (v *View) StatusCounts() map[string]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	counts := make(map[string]int, 3)
	for _, n := range v.nodes {
		counts[string(n.Status)]++
	}
	return counts
}

// NodeCount returns the current node count.
func (v *View) NodeCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.nodes)
}
