package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, r *Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestRecordFrame(t *testing.T) {
	r := NewRegistry()
	r.RecordFrame(5*time.Millisecond, 12)
	r.RecordFrame(7*time.Millisecond, 14)

	got := gather(t, r)

	frames := got["cantopo_frames_total"]
	require.NotNil(t, frames)
	assert.Equal(t, 2.0, frames.GetMetric()[0].GetCounter().GetValue())

	nodes := got["cantopo_nodes_rendered"]
	require.NotNil(t, nodes)
	assert.Equal(t, 14.0, nodes.GetMetric()[0].GetGauge().GetValue(), "gauge holds the latest frame")

	hist := got["cantopo_frame_duration_seconds"]
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestRecordSnapshot(t *testing.T) {
	r := NewRegistry()
	r.RecordSnapshot(1024)
	r.RecordSnapshot(512)

	got := gather(t, r)
	assert.Equal(t, 2.0, got["cantopo_snapshots_received_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1536.0, got["cantopo_snapshot_bytes_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestSetDeviceCountsReplacesGauges(t *testing.T) {
	r := NewRegistry()
	r.SetDeviceCounts(
		map[string]int{"can": 6, "lin": 3},
		map[string]int{"online": 8, "offline": 1},
	)
	// A later snapshot without LIN devices must drop the stale series.
	r.SetDeviceCounts(map[string]int{"can": 5}, map[string]int{"online": 5})

	got := gather(t, r)
	devices := got["cantopo_devices"]
	require.NotNil(t, devices)
	require.Len(t, devices.GetMetric(), 1)
	m := devices.GetMetric()[0]
	assert.Equal(t, "can", m.GetLabel()[0].GetValue())
	assert.Equal(t, 5.0, m.GetGauge().GetValue())

	status := got["cantopo_devices_by_status"]
	require.Len(t, status.GetMetric(), 1)
}

func TestSetBusThroughput(t *testing.T) {
	r := NewRegistry()
	r.SetBusThroughput(map[string]float64{"can": 742.5})

	got := gather(t, r)
	mps := got["cantopo_bus_throughput_mps"]
	require.NotNil(t, mps)
	assert.Equal(t, 742.5, mps.GetMetric()[0].GetGauge().GetValue())
}

func TestSnapshotAgeGauge(t *testing.T) {
	r := NewRegistry()
	r.SetSnapshotAge(90 * time.Second)

	got := gather(t, r)
	assert.Equal(t, 90.0, got["cantopo_snapshot_age_seconds"].GetMetric()[0].GetGauge().GetValue())
}
