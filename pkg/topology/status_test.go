package topology

import (
	"testing"
	"time"

	"github.com/dd0wney/cantopo/pkg/device"
)

// TestStatusClassification covers token and freshness derivation
func TestStatusClassification(t *testing.T) {
	rules := DefaultStatusRules()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dev  device.Device
		want Status
	}{
		{"active token", device.Device{State: "on"}, StatusOnline},
		{"active token upper", device.Device{State: "Online"}, StatusOnline},
		{"locked is active", device.Device{State: "locked"}, StatusOnline},
		{"error token", device.Device{State: "fault"}, StatusError},
		{"unknown token", device.Device{State: "sleeping"}, StatusOffline},
		{"empty state", device.Device{}, StatusOffline},
		{"fresh last-seen", device.Device{LastSeen: now.Add(-100 * time.Second)}, StatusOnline},
		{"stale last-seen", device.Device{LastSeen: now.Add(-301 * time.Second)}, StatusOffline},
		{"boundary last-seen", device.Device{LastSeen: now.Add(-300 * time.Second)}, StatusOnline},
		{"error beats freshness", device.Device{State: "error", LastSeen: now}, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Classify(tt.dev, now); got != tt.want {
				t.Errorf("Classify(%+v) = %s, want %s", tt.dev, got, tt.want)
			}
		})
	}
}
