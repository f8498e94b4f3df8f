package device

import (
	"time"
)

// Protocol identifies the wire protocol a device was discovered on.
type Protocol string

const (
	// ProtocolCAN is the primary powertrain/body CAN bus.
	ProtocolCAN Protocol = "can"
	// ProtocolLIN covers subordinate LIN bus frames.
	ProtocolLIN Protocol = "lin"
	// ProtocolOBD covers OBD-II diagnostic endpoints with engine telemetry.
	ProtocolOBD Protocol = "obd"
	// ProtocolJ1939 covers J1939 nodes, which report lamp/safety status.
	ProtocolJ1939 Protocol = "j1939"
)

// Protocols lists all known protocols in canonical order.
var Protocols = []Protocol{ProtocolCAN, ProtocolLIN, ProtocolOBD, ProtocolJ1939}

// String returns the protocol tag.
func (p Protocol) String() string {
	return string(p)
}

// Known reports whether the protocol is one of the fixed set.
func (p Protocol) Known() bool {
	switch p {
	case ProtocolCAN, ProtocolLIN, ProtocolOBD, ProtocolJ1939:
		return true
	}
	return false
}

// SafetyStatus is the safety classification reported by protocols
// that carry one (J1939 lamp status).
type SafetyStatus string

const (
	SafetyUnknown  SafetyStatus = ""
	SafetyNormal   SafetyStatus = "normal"
	SafetyCaution  SafetyStatus = "caution"
	SafetyCritical SafetyStatus = "critical"
)

// Device is the uniform record every protocol payload normalizes to.
// A device is immutable once built; a new snapshot replaces the
// previous population wholesale.
type Device struct {
	// ID is unique within its protocol.
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Protocol Protocol `json:"protocol"`
	// Type is an open vocabulary classifier (light, lock, tank, ...).
	Type  string `json:"type"`
	State string `json:"state"`
	// LastSeen is zero when the protocol does not report it.
	LastSeen time.Time    `json:"lastSeen,omitempty"`
	Safety   SafetyStatus `json:"safety,omitempty"`
	// Telemetry holds a single numeric reading where the protocol
	// nests one (OBD engine telemetry). Nil when absent.
	Telemetry *float64 `json:"telemetry,omitempty"`
}

// Key returns a snapshot-wide identifier. Device IDs are only unique
// per protocol, so the protocol tag is part of the key.
func (d Device) Key() string {
	return string(d.Protocol) + "/" + d.ID
}
