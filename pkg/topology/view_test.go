package topology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cantopo/pkg/device"
)

func newTestView(t *testing.T, devices []device.Device) *View {
	t.Helper()
	view := NewView(testLayout(), NewTransform(0, 0, 0))
	require.NoError(t, view.SetSnapshot(devices, nil, time.Now()))
	return view
}

func TestHandleClickSelectsNodeAtCenter(t *testing.T) {
	view := newTestView(t, mixedDevices())
	frame := view.Frame()
	require.NotEmpty(t, frame.Nodes)

	for _, n := range frame.Nodes {
		// Unity transform: screen == world.
		got := view.HandleClick(n.Position.X, n.Position.Y)
		assert.Equal(t, n.ID, got, "click at node center must select it")
	}
}

func TestHandleClickJustOutsideRadiusSelectsNothing(t *testing.T) {
	view := newTestView(t, []device.Device{
		{ID: "a", Protocol: device.ProtocolCAN, Type: "light", State: "on"},
	})
	n := view.Frame().Nodes[0]

	got := view.HandleClick(n.Position.X+n.Radius+0.001, n.Position.Y)
	assert.Empty(t, got, "click beyond the hit radius must not select")
	assert.Empty(t, view.SelectedID())
}

func TestHandleClickEmptyCanvasDeselects(t *testing.T) {
	view := newTestView(t, mixedDevices())
	n := view.Frame().Nodes[0]

	require.Equal(t, n.ID, view.HandleClick(n.Position.X, n.Position.Y))
	assert.Empty(t, view.HandleClick(1, 1), "empty-canvas click clears selection")
	assert.Empty(t, view.SelectedID())
}

func TestHandleClickUsesInverseTransform(t *testing.T) {
	view := newTestView(t, mixedDevices())
	view.ZoomIn()
	view.PanBy(37, -12)

	frame := view.Frame()
	n := frame.Nodes[2]
	screen := frame.Transform.WorldToScreen(n.Position)

	assert.Equal(t, n.ID, view.HandleClick(screen.X, screen.Y))
}

func TestResetViewClearsTransformAndSelection(t *testing.T) {
	view := newTestView(t, mixedDevices())
	n := view.Frame().Nodes[0]
	view.HandleClick(n.Position.X, n.Position.Y)
	view.ZoomIn()
	view.ZoomIn()
	view.PanBy(100, 50)

	view.ResetView()

	frame := view.Frame()
	assert.Equal(t, 1.0, frame.Transform.Scale)
	assert.Zero(t, frame.Transform.PanX)
	assert.Zero(t, frame.Transform.PanY)
	assert.Empty(t, frame.SelectedID)
}

func TestOnSelectFiresOnChangesOnly(t *testing.T) {
	view := newTestView(t, mixedDevices())
	var calls []string
	view.OnSelect(func(id string) { calls = append(calls, id) })

	n := view.Frame().Nodes[0]
	view.HandleClick(n.Position.X, n.Position.Y)
	view.HandleClick(n.Position.X, n.Position.Y) // same node, no change
	view.HandleClick(1, 1)                       // deselect

	assert.Equal(t, []string{n.ID, ""}, calls)
}

func TestSnapshotReplacementDropsVanishedSelection(t *testing.T) {
	view := newTestView(t, []device.Device{
		{ID: "a", Protocol: device.ProtocolCAN, Type: "light", State: "on"},
		{ID: "b", Protocol: device.ProtocolCAN, Type: "lock", State: "locked"},
	})
	n := view.Frame().Nodes[0]
	require.Equal(t, "can/a", n.ID)
	view.HandleClick(n.Position.X, n.Position.Y)
	require.Equal(t, "can/a", view.SelectedID())

	// Device "a" vanishes from the next snapshot.
	require.NoError(t, view.SetSnapshot([]device.Device{
		{ID: "b", Protocol: device.ProtocolCAN, Type: "lock", State: "locked"},
	}, nil, time.Now()))

	assert.Empty(t, view.SelectedID())
}

func TestSnapshotSurvivingSelectionSticks(t *testing.T) {
	devices := mixedDevices()
	view := newTestView(t, devices)
	n := view.Frame().Nodes[1]
	view.HandleClick(n.Position.X, n.Position.Y)

	require.NoError(t, view.SetSnapshot(devices, nil, time.Now()))
	assert.Equal(t, n.ID, view.SelectedID(), "selection keyed by protocol tag survives refresh")
}

func TestSetSnapshotAnnotatesThroughput(t *testing.T) {
	view := NewView(testLayout(), nil)
	require.NoError(t, view.SetSnapshot(mixedDevices(), map[device.Protocol]float64{
		device.ProtocolCAN: 512,
	}, time.Now()))

	for _, n := range view.Frame().Nodes {
		if n.Protocol == device.ProtocolCAN {
			require.NotNil(t, n.Throughput)
			assert.Equal(t, 512.0, *n.Throughput)
		} else {
			assert.Nil(t, n.Throughput)
		}
	}
}

func TestSelectedNodeReturnsDeviceRecord(t *testing.T) {
	telemetry := 1450.0
	view := newTestView(t, []device.Device{
		{ID: "0x0C", Protocol: device.ProtocolOBD, Type: "engine", State: "online", Telemetry: &telemetry},
	})
	n := view.Frame().Nodes[0]
	view.HandleClick(n.Position.X, n.Position.Y)

	node, dev, ok := view.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, n.ID, node.ID)
	require.NotNil(t, dev.Telemetry)
	assert.Equal(t, telemetry, *dev.Telemetry)
}

func TestStatusCounts(t *testing.T) {
	view := newTestView(t, []device.Device{
		{ID: "a", Protocol: device.ProtocolCAN, State: "on"},
		{ID: "b", Protocol: device.ProtocolCAN, State: "fault"},
		{ID: "c", Protocol: device.ProtocolCAN, State: "mystery"},
	})
	counts := view.StatusCounts()
	assert.Equal(t, 1, counts["online"])
	assert.Equal(t, 1, counts["error"])
	assert.Equal(t, 1, counts["offline"])
}
