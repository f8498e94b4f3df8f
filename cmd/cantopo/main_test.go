package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cantopo/pkg/device"
	"github.com/dd0wney/cantopo/pkg/render"
	"github.com/dd0wney/cantopo/pkg/topology"
)

func testModel(t *testing.T) (model, *topology.View) {
	t.Helper()
	layout := topology.NewZoneLayout(&topology.LayoutConfig{Width: 800, Height: 600}, nil, nil)
	view := topology.NewView(layout, nil)
	require.NoError(t, view.SetSnapshot([]device.Device{
		{ID: "a", Name: "Cabin Lights", Protocol: device.ProtocolCAN, Type: "light", State: "on"},
	}, nil, time.Now()))
	return initialModel(view, render.NewCellCanvas(800, 600)), view
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestUpdateZoomKeys(t *testing.T) {
	m, view := testModel(t)

	m.Update(keyPress('+'))
	assert.InDelta(t, 1.2, view.Frame().Transform.Scale, 1e-9)

	m.Update(keyPress('-'))
	assert.InDelta(t, 1.0, view.Frame().Transform.Scale, 1e-9)

	m.Update(keyPress('+'))
	m.Update(keyPress('0'))
	assert.Equal(t, 1.0, view.Frame().Transform.Scale)
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdateMouseClickSelectsNode(t *testing.T) {
	m, view := testModel(t)

	// Single CAN device sits at world (560, 300) under unity transform;
	// that pixel is cell (70, 18), offset by the title row.
	n := view.Frame().Nodes[0]
	col := int(n.Position.X / render.PixelsPerCellX)
	row := int(n.Position.Y / render.PixelsPerCellY)

	m.Update(tea.MouseMsg{
		X:      col,
		Y:      row + canvasOriginRow,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, n.ID, view.SelectedID())

	// A click on the title row is outside the canvas and changes nothing.
	m.Update(tea.MouseMsg{X: col, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, n.ID, view.SelectedID())
}

func TestUpdateFrameMsgReplacesFrame(t *testing.T) {
	m, _ := testModel(t)
	updated, _ := m.Update(frameMsg("rendered frame"))
	assert.Equal(t, "rendered frame", updated.(model).frame)
}

func TestViewShowsWaitingPlaceholder(t *testing.T) {
	m, _ := testModel(t)
	assert.Contains(t, m.View(), "Waiting for first snapshot")

	updated, _ := m.Update(frameMsg("FRAME"))
	assert.Contains(t, updated.(model).View(), "FRAME")
}
