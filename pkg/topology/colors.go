package topology

import (
	"strings"

	"github.com/dd0wney/cantopo/pkg/device"
)

// Palette holds the fixed color lookup tables. Device type drives the
// node fill, protocol drives the accent/border. Unknown types fall
// back to FillFallback; an unknown protocol borrows the first known
// protocol's accent.
type Palette struct {
	Fills        map[string]string
	FillFallback string
	Accents      map[device.Protocol]string
	StatusColors map[Status]string
}

// DefaultPalette returns the stock color tables.
func DefaultPalette() *Palette {
	return &Palette{
		Fills: map[string]string{
			"light":      "#FFD54F",
			"lock":       "#90A4AE",
			"tank":       "#4FC3F7",
			"sensor":     "#81C784",
			"battery":    "#AED581",
			"pump":       "#4DD0E1",
			"thermostat": "#FF8A65",
			"engine":     "#E57373",
		},
		FillFallback: "#B0BEC5",
		Accents: map[device.Protocol]string{
			device.ProtocolCAN:   "#29B6F6",
			device.ProtocolLIN:   "#AB47BC",
			device.ProtocolOBD:   "#FFA726",
			device.ProtocolJ1939: "#66BB6A",
		},
		StatusColors: map[Status]string{
			StatusOnline:  "#00E676",
			StatusOffline: "#757575",
			StatusError:   "#FF1744",
		},
	}
}

// Fill returns the fill color for a device type.
func (p *Palette) Fill(deviceType string) string {
	if c, ok := p.Fills[strings.ToLower(deviceType)]; ok {
		return c
	}
	return p.FillFallback
}

// Accent returns the accent color for a protocol. Unknown protocols
// fall back to the first protocol's color rather than erroring.
func (p *Palette) Accent(proto device.Protocol) string {
	if c, ok := p.Accents[proto]; ok {
		return c
	}
	return p.Accents[device.Protocols[0]]
}

// StatusColor returns the indicator color for a node status.
func (p *Palette) StatusColor(s Status) string {
	if c, ok := p.StatusColors[s]; ok {
		return c
	}
	return p.StatusColors[StatusOffline]
}
