package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cantopo/pkg/config"
	"github.com/dd0wney/cantopo/pkg/feed"
	"github.com/dd0wney/cantopo/pkg/history"
	"github.com/dd0wney/cantopo/pkg/logging"
	"github.com/dd0wney/cantopo/pkg/metrics"
	"github.com/dd0wney/cantopo/pkg/render"
	"github.com/dd0wney/cantopo/pkg/sim"
	"github.com/dd0wney/cantopo/pkg/topology"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#29B6F6"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	detailsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#29B6F6")).
			Padding(0, 1)

	detailsLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))
)

// Canvas placement inside the terminal: one title row above it.
const canvasOriginRow = 1

type keyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "pan up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "pan down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "pan left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "pan right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Quit},
	}
}

// panStep is the pan distance per arrow press, in screen pixels.
const panStep = 40.0

type frameMsg string

type model struct {
	view   *topology.View
	canvas *render.CellCanvas
	keys   keyMap
	help   help.Model
	frame  string
	width  int
}

func initialModel(view *topology.View, canvas *render.CellCanvas) model {
	return model{
		view:   view,
		canvas: canvas,
		keys:   keys,
		help:   help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case frameMsg:
		m.frame = string(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			col := msg.X
			row := msg.Y - canvasOriginRow
			if col >= 0 && col < m.canvas.Cols() && row >= 0 && row < m.canvas.Rows() {
				px, py := m.canvas.CellToPixel(col, row)
				m.view.HandleClick(px, py)
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			m.view.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			m.view.ZoomOut()
		case key.Matches(msg, m.keys.Reset):
			m.view.ResetView()
		case key.Matches(msg, m.keys.Up):
			m.view.PanBy(0, panStep)
		case key.Matches(msg, m.keys.Down):
			m.view.PanBy(0, -panStep)
		case key.Matches(msg, m.keys.Left):
			m.view.PanBy(panStep, 0)
		case key.Matches(msg, m.keys.Right):
			m.view.PanBy(-panStep, 0)
		}
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("cantopo — vehicle network topology"))
	s.WriteString("\n")

	canvas := m.frame
	if canvas == "" {
		canvas = "Waiting for first snapshot..."
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.renderDetails()))
	s.WriteString("\n")

	s.WriteString(m.renderStatusBar())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderDetails() string {
	node, dev, ok := m.view.SelectedNode()
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(node.Name))
	fmt.Fprintf(&b, "%s %s\n", detailsLabelStyle.Render("protocol:"), node.Protocol)
	fmt.Fprintf(&b, "%s %s\n", detailsLabelStyle.Render("type:"), dev.Type)
	fmt.Fprintf(&b, "%s %s\n", detailsLabelStyle.Render("state:"), dev.State)
	fmt.Fprintf(&b, "%s %s\n", detailsLabelStyle.Render("status:"), node.Status)
	if node.Safety != "" {
		fmt.Fprintf(&b, "%s %s\n", detailsLabelStyle.Render("safety:"), node.Safety)
	}
	if dev.Telemetry != nil {
		fmt.Fprintf(&b, "%s %.0f\n", detailsLabelStyle.Render("telemetry:"), *dev.Telemetry)
	}
	if node.Throughput != nil {
		fmt.Fprintf(&b, "%s %.0f msg/s\n", detailsLabelStyle.Render("bus rate:"), *node.Throughput)
	}
	if !dev.LastSeen.IsZero() {
		fmt.Fprintf(&b, "%s %s", detailsLabelStyle.Render("last seen:"), dev.LastSeen.Format(time.TimeOnly))
	}

	return detailsBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) renderStatusBar() string {
	frame := m.view.Frame()

	parts := make([]string, 0, 6)
	parts = append(parts, fmt.Sprintf("nodes %d", len(frame.Nodes)))
	parts = append(parts, fmt.Sprintf("zoom %.2fx", frame.Transform.Scale))
	for _, z := range frame.Zones {
		if mps, ok := frame.Throughput[z.Protocol]; ok {
			parts = append(parts, fmt.Sprintf("%s %.0f msg/s", z.Protocol, mps))
		}
	}
	if !frame.TakenAt.IsZero() {
		parts = append(parts, fmt.Sprintf("snapshot %s ago", time.Since(frame.TakenAt).Round(time.Second)))
	}

	return statusBarStyle.Render(strings.Join(parts, " │ "))
}

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	metricsAddr := flag.String("metrics-addr", "", "Expose prometheus metrics on this address (e.g. :9464)")
	flag.Parse()

	logger := logging.NewDefaultLogger().With(logging.Component("cantopo"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", logging.Error(err))
		os.Exit(1)
	}

	registry := metrics.NewRegistry()

	layout := topology.NewZoneLayout(cfg.LayoutConfig(), cfg.Palette(), cfg.StatusRules())
	view := topology.NewView(layout, cfg.Transform())
	view.OnSelect(func(id string) {
		registry.SelectionChanges.Inc()
	})

	canvas := render.NewCellCanvas(cfg.Canvas.Width, cfg.Canvas.Height)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(
		initialModel(view, canvas),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	loop, err := render.NewLoop(canvas, render.NewPainter(cfg.Palette()), view,
		func(rendered string) { p.Send(frameMsg(rendered)) },
		render.WithScheduler(render.NewTickerScheduler(cfg.FrameInterval())),
		render.WithLogger(logger.With(logging.Component("render"))),
		render.WithMetrics(registry),
	)
	if err != nil {
		// No drawing surface: report the capability gap instead of
		// presenting a blank dashboard.
		logger.Error("cannot start render loop", logging.Error(err))
		os.Exit(1)
	}
	go loop.Run(ctx)

	var store *history.Store
	if cfg.History.DatabaseURL != "" {
		store, err = history.NewStore(ctx, cfg.History.DatabaseURL)
		if err != nil {
			logger.Error("snapshot archive unavailable", logging.Error(err))
			os.Exit(1)
		}
		defer store.Close()
	}

	consumer := func(snap feed.Snapshot) {
		if err := view.SetSnapshot(snap.Devices, snap.Throughput, snap.TakenAt); err != nil {
			logger.Warn("snapshot rejected", logging.Error(err))
			return
		}
		recordSnapshot(registry, snap, view.StatusCounts())
		if store != nil {
			if err := store.Archive(ctx, snap); err != nil {
				logger.Warn("snapshot archive failed", logging.Error(err))
			}
		}
	}

	if cfg.Feed.DialAddr != "" {
		subscriber, err := feed.NewSubscriber(
			feed.NewNNGSocketFactory(), cfg.Feed.DialAddr, consumer,
			logger.With(logging.Component("feed")), registry)
		if err != nil {
			logger.Error("cannot connect to snapshot feed", logging.Error(err))
			os.Exit(1)
		}
		go subscriber.Run(ctx)
	} else {
		simulator := sim.New(time.Now().UnixNano())
		poller := feed.NewPoller(simulator.Snapshot, consumer, cfg.PollInterval(),
			logger.With(logging.Component("feed")))
		go poller.Run(ctx)
	}

	if *metricsAddr != "" {
		go func() {
			handler := promhttp.HandlerFor(registry.Gatherer(), promhttp.HandlerOpts{})
			if err := http.ListenAndServe(*metricsAddr, handler); err != nil {
				logger.Warn("metrics listener failed", logging.Error(err))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		logger.Error("program failed", logging.Error(err))
		os.Exit(1)
	}
}

func recordSnapshot(registry *metrics.Registry, snap feed.Snapshot, byStatus map[string]int) {
	byProtocol := make(map[string]int)
	for _, d := range snap.Devices {
		byProtocol[string(d.Protocol)]++
	}
	mps := make(map[string]float64, len(snap.Throughput))
	for proto, v := range snap.Throughput {
		mps[string(proto)] = v
	}
	registry.SetDeviceCounts(byProtocol, byStatus)
	registry.SetBusThroughput(mps)
}
