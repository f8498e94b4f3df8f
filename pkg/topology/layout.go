package topology

import (
	"math"
	"time"

	"github.com/dd0wney/cantopo/pkg/device"
)

const (
	// DefaultNodeRadius is the fixed render radius in world units.
	DefaultNodeRadius = 18.0
	// maxRingRadius caps node spread so a zone never exceeds the
	// canvas regardless of its size.
	maxRingRadius = 120.0
)

// ZoneLayout places devices on per-protocol rings around zone centers
// that themselves sit on a ring around the canvas center. The layout
// is a pure function of the ordered input: no randomness, no state.
type ZoneLayout struct {
	config   *LayoutConfig
	palette  *Palette
	statuses *StatusRules
	now      func() time.Time
}

// NewZoneLayout creates a zone layout with the given config. Nil
// palette or status rules fall back to the defaults.
func NewZoneLayout(config *LayoutConfig, palette *Palette, statuses *StatusRules) *ZoneLayout {
	if config.NodeRadius == 0 {
		config.NodeRadius = DefaultNodeRadius
	}
	if palette == nil {
		palette = DefaultPalette()
	}
	if statuses == nil {
		statuses = DefaultStatusRules()
	}
	return &ZoneLayout{
		config:   config,
		palette:  palette,
		statuses: statuses,
		now:      time.Now,
	}
}

// ComputeLayout maps the ordered device list to visual nodes and
// protocol zones. Protocols keep first-seen order and devices keep
// first-seen order within their protocol, so identical input always
// produces identical output.
func (zl *ZoneLayout) ComputeLayout(devices []device.Device) ([]*Node, []Zone, error) {
	nodes := make([]*Node, 0, len(devices))
	if len(devices) == 0 {
		return nodes, nil, nil
	}

	// Partition preserving first-seen order on both levels.
	order := make([]device.Protocol, 0, 4)
	groups := make(map[device.Protocol][]device.Device)
	for _, d := range devices {
		if _, seen := groups[d.Protocol]; !seen {
			order = append(order, d.Protocol)
		}
		groups[d.Protocol] = append(groups[d.Protocol], d)
	}

	centerX := zl.config.Width / 2
	centerY := zl.config.Height / 2
	// Zone ring radius, scaled down to keep every zone visible
	// regardless of protocol count.
	zoneDist := math.Min(zl.config.Width, zl.config.Height) / 3 * 0.5

	zones := make([]Zone, 0, len(order))
	now := zl.now()

	for i, proto := range order {
		members := groups[proto]
		theta := float64(i) / float64(len(order)) * 2 * math.Pi
		zone := Zone{
			Protocol: proto,
			Center: Position{
				X: centerX + zoneDist*math.Cos(theta),
				Y: centerY + zoneDist*math.Sin(theta),
			},
			RingRadius: math.Min(zoneDist*0.6, maxRingRadius),
			Count:      len(members),
		}
		zones = append(zones, zone)

		for j, d := range members {
			phi := float64(j) / float64(len(members)) * 2 * math.Pi
			node := &Node{
				ID:       d.Key(),
				Name:     d.Name,
				Protocol: d.Protocol,
				Position: Position{
					X: zone.Center.X + zone.RingRadius*math.Cos(phi),
					Y: zone.Center.Y + zone.RingRadius*math.Sin(phi),
				},
				Radius:      zl.config.NodeRadius,
				FillColor:   zl.palette.Fill(d.Type),
				AccentColor: zl.palette.Accent(d.Protocol),
				Status:      zl.statuses.Classify(d, now),
				Safety:      d.Safety,
			}
			nodes = append(nodes, node)
		}
	}

	return nodes, zones, nil
}
