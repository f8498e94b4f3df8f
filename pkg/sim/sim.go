// Package sim generates plausible vehicle-network snapshots for
// development and for the feed publisher demo. It stands in for the
// discovery collaborator; nothing in the visualizer depends on it.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/dd0wney/cantopo/pkg/device"
	"github.com/dd0wney/cantopo/pkg/feed"
)

// Simulator produces a stable device population whose states and
// telemetry drift between snapshots, the way a real bus network
// looks across refreshes.
type Simulator struct {
	rng  *rand.Rand
	base device.RawSnapshot
}

// New creates a simulator. The seed fixes the drift sequence, which
// keeps demo runs reproducible.
func New(seed int64) *Simulator {
	s := &Simulator{rng: rand.New(rand.NewSource(seed))}
	s.base = device.RawSnapshot{
		CAN: []device.CANPayload{
			{NodeID: "0x21", DisplayName: "Cabin Lights", DeviceClass: "light", State: "on"},
			{NodeID: "0x22", DisplayName: "Door Lock FL", DeviceClass: "lock", State: "locked"},
			{NodeID: "0x23", DisplayName: "Door Lock FR", DeviceClass: "lock", State: "locked"},
			{NodeID: "0x30", DisplayName: "Fresh Water Tank", DeviceClass: "tank", State: "ok"},
			{NodeID: "0x31", DisplayName: "Water Pump", DeviceClass: "pump", State: "idle"},
			{NodeID: "0x40", DisplayName: "Thermostat", DeviceClass: "thermostat", State: "running"},
		},
		LIN: []device.LINPayload{
			{FrameID: "lin-10", Label: "Mirror Ctl", Kind: "sensor", State: ""},
			{FrameID: "lin-11", Label: "Seat Heater", Kind: "sensor", State: ""},
			{FrameID: "lin-12", Label: "Rain Sensor", Kind: "sensor", State: ""},
		},
		OBD: []device.OBDPayload{
			{PID: "0x0C", Name: "Engine RPM", Status: "online"},
			{PID: "0x0D", Name: "Vehicle Speed", Status: "online"},
		},
		J1939: []device.J1939Payload{
			{SourceAddress: "0xEE", Name: "Brake Controller", Function: "sensor", State: "active", Lamp: "none"},
			{SourceAddress: "0xEF", Name: "Battery Monitor", Function: "battery", State: "active", Lamp: "none"},
			{SourceAddress: "0xF0", Name: "Exhaust Monitor", Function: "sensor", State: "active", Lamp: "none"},
		},
	}
	return s
}

// Snapshot produces the next snapshot, drifting states and telemetry.
// Drift applies to a copy of the base population, so a device that
// goes offline in one snapshot comes back in the next unless the dice
// say otherwise.
func (s *Simulator) Snapshot(_ context.Context) (feed.Snapshot, error) {
	now := time.Now()
	raw := device.RawSnapshot{
		CAN:   append([]device.CANPayload(nil), s.base.CAN...),
		LIN:   append([]device.LINPayload(nil), s.base.LIN...),
		OBD:   append([]device.OBDPayload(nil), s.base.OBD...),
		J1939: append([]device.J1939Payload(nil), s.base.J1939...),
	}

	// Occasionally toggle a CAN device or fault a pump.
	for i := range raw.CAN {
		switch roll := s.rng.Float64(); {
		case roll < 0.05:
			raw.CAN[i].State = "offline"
		case roll < 0.08 && raw.CAN[i].DeviceClass == "pump":
			raw.CAN[i].State = "fault"
		}
	}

	// LIN liveness comes from last-heard: most frames are fresh, the
	// occasional one has gone quiet.
	for i := range raw.LIN {
		age := time.Duration(s.rng.Intn(60)) * time.Second
		if s.rng.Float64() < 0.1 {
			age = 10 * time.Minute
		}
		raw.LIN[i].LastHeard = now.Add(-age)
	}

	// Engine telemetry on the RPM PID.
	rpm := 700 + s.rng.Float64()*2300
	raw.OBD[0].Engine = &struct {
		RPM float64 `json:"rpm"`
	}{RPM: rpm}

	// Safety lamp drift on J1939.
	for i := range raw.J1939 {
		switch roll := s.rng.Float64(); {
		case roll < 0.04:
			raw.J1939[i].Lamp = "red"
		case roll < 0.14:
			raw.J1939[i].Lamp = "amber"
		default:
			raw.J1939[i].Lamp = "none"
		}
	}

	throughput := map[device.Protocol]float64{
		device.ProtocolCAN:   400 + s.rng.Float64()*300,
		device.ProtocolLIN:   20 + s.rng.Float64()*20,
		device.ProtocolOBD:   10 + s.rng.Float64()*10,
		device.ProtocolJ1939: 80 + s.rng.Float64()*60,
	}

	return feed.NewSnapshot(raw, throughput, now), nil
}
