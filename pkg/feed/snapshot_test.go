package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cantopo/pkg/device"
)

func sampleSnapshot() Snapshot {
	taken := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	return NewSnapshot(device.RawSnapshot{
		CAN: []device.CANPayload{
			{NodeID: "0x21", DisplayName: "Cabin Lights", DeviceClass: "light", State: "on"},
		},
		J1939: []device.J1939Payload{
			{SourceAddress: "0xEE", Name: "Brakes", Function: "sensor", State: "active", Lamp: "red"},
		},
	}, map[device.Protocol]float64{device.ProtocolCAN: 742.5}, taken)
}

func TestSnapshotWireRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := Encode(snap)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, snap.ID, got.ID)
	assert.True(t, got.TakenAt.Equal(snap.TakenAt))
	require.Len(t, got.Devices, 2)
	assert.Equal(t, "can/0x21", got.Devices[0].Key())
	assert.Equal(t, device.SafetyCritical, got.Devices[1].Safety)
	assert.Equal(t, 742.5, got.Throughput[device.ProtocolCAN])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not snappy"))
	assert.Error(t, err)
}

func TestNewSnapshotNormalizesDevices(t *testing.T) {
	snap := sampleSnapshot()
	assert.NotEqual(t, snap.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, device.ProtocolCAN, snap.Devices[0].Protocol)
	assert.Equal(t, device.ProtocolJ1939, snap.Devices[1].Protocol)
}
