package device

import (
	"strings"
	"time"
)

// Per-protocol payload shapes. Each bus reports devices with slightly
// different fields; the adapter functions below map every variant to
// the uniform Device record. Only the identifier and a state string
// are required, everything else degrades to its zero value.

// CANPayload is a node announcement on the primary CAN bus.
type CANPayload struct {
	NodeID      string `json:"nodeId"`
	DisplayName string `json:"displayName"`
	DeviceClass string `json:"deviceClass"`
	State       string `json:"state"`
}

// LINPayload is a subordinate LIN frame source. LIN devices do not
// report a state machine of their own, so liveness comes from the
// last-heard timestamp.
type LINPayload struct {
	FrameID   string    `json:"frameId"`
	Label     string    `json:"label"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	LastHeard time.Time `json:"lastHeard"`
}

// OBDPayload is an OBD-II diagnostic endpoint. Engine telemetry is
// nested in a sub-block.
type OBDPayload struct {
	PID    string `json:"pid"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Engine *struct {
		RPM float64 `json:"rpm"`
	} `json:"engine,omitempty"`
}

// J1939Payload is a J1939 controller application. The DM1 lamp field
// carries the safety classification.
type J1939Payload struct {
	SourceAddress string `json:"sourceAddress"`
	Name          string `json:"name"`
	Function      string `json:"function"`
	State         string `json:"state"`
	Lamp          string `json:"lamp,omitempty"`
}

// FromCAN normalizes a CAN announcement.
func FromCAN(p CANPayload) Device {
	return Device{
		ID:       p.NodeID,
		Name:     nameOr(p.DisplayName, p.NodeID),
		Protocol: ProtocolCAN,
		Type:     strings.ToLower(p.DeviceClass),
		State:    p.State,
	}
}

// FromLIN normalizes a LIN frame source.
func FromLIN(p LINPayload) Device {
	return Device{
		ID:       p.FrameID,
		Name:     nameOr(p.Label, p.FrameID),
		Protocol: ProtocolLIN,
		Type:     strings.ToLower(p.Kind),
		State:    p.State,
		LastSeen: p.LastHeard,
	}
}

// FromOBD normalizes a diagnostic endpoint, lifting the nested engine
// telemetry into the flat record when present.
func FromOBD(p OBDPayload) Device {
	d := Device{
		ID:       p.PID,
		Name:     nameOr(p.Name, p.PID),
		Protocol: ProtocolOBD,
		Type:     "engine",
		State:    p.Status,
	}
	if p.Engine != nil {
		rpm := p.Engine.RPM
		d.Telemetry = &rpm
	}
	return d
}

// FromJ1939 normalizes a controller application, mapping the DM1 lamp
// to the safety classification. An unrecognized lamp value stays
// SafetyUnknown rather than dropping the device.
func FromJ1939(p J1939Payload) Device {
	return Device{
		ID:       p.SourceAddress,
		Name:     nameOr(p.Name, p.SourceAddress),
		Protocol: ProtocolJ1939,
		Type:     strings.ToLower(p.Function),
		State:    p.State,
		Safety:   lampToSafety(p.Lamp),
	}
}

// RawSnapshot is the heterogeneous per-protocol input as delivered by
// the discovery collaborator.
type RawSnapshot struct {
	CAN   []CANPayload   `json:"can,omitempty"`
	LIN   []LINPayload   `json:"lin,omitempty"`
	OBD   []OBDPayload   `json:"obd,omitempty"`
	J1939 []J1939Payload `json:"j1939,omitempty"`
}

// NormalizeAll flattens a raw snapshot into one ordered device list.
// Input order is preserved within each protocol, and protocols appear
// in the order their sections appear on the wire (CAN, LIN, OBD,
// J1939), which keeps layout deterministic across refreshes.
func NormalizeAll(raw RawSnapshot) []Device {
	out := make([]Device, 0, len(raw.CAN)+len(raw.LIN)+len(raw.OBD)+len(raw.J1939))
	for _, p := range raw.CAN {
		if p.NodeID == "" {
			continue
		}
		out = append(out, FromCAN(p))
	}
	for _, p := range raw.LIN {
		if p.FrameID == "" {
			continue
		}
		out = append(out, FromLIN(p))
	}
	for _, p := range raw.OBD {
		if p.PID == "" {
			continue
		}
		out = append(out, FromOBD(p))
	}
	for _, p := range raw.J1939 {
		if p.SourceAddress == "" {
			continue
		}
		out = append(out, FromJ1939(p))
	}
	return out
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func lampToSafety(lamp string) SafetyStatus {
	switch strings.ToLower(lamp) {
	case "protect", "none", "off":
		return SafetyNormal
	case "amber", "warning":
		return SafetyCaution
	case "red", "stop":
		return SafetyCritical
	default:
		return SafetyUnknown
	}
}
