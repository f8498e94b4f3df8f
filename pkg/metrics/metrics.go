package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the visualizer
type Registry struct {
	// Render metrics
	FramesTotal   prometheus.Counter
	FrameDuration prometheus.Histogram
	NodesRendered prometheus.Gauge
	SnapshotAge   prometheus.Gauge

	// Feed metrics
	SnapshotsReceived  prometheus.Counter
	SnapshotBytesTotal prometheus.Counter
	FeedDecodeErrors   prometheus.Counter

	// Device metrics
	DevicesByProtocol *prometheus.GaugeVec
	DevicesByStatus   *prometheus.GaugeVec
	BusThroughput     *prometheus.GaugeVec

	// Interaction metrics
	SelectionChanges prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates and registers all visualizer metrics
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cantopo_frames_total",
		Help: "Total frames rendered",
	})
	r.FrameDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cantopo_frame_duration_seconds",
		Help:    "Frame paint duration",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	r.NodesRendered = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cantopo_nodes_rendered",
		Help: "Nodes in the most recent frame",
	})
	r.SnapshotAge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cantopo_snapshot_age_seconds",
		Help: "Age of the snapshot behind the most recent frame",
	})

	r.SnapshotsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cantopo_snapshots_received_total",
		Help: "Snapshots received from the feed",
	})
	r.SnapshotBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cantopo_snapshot_bytes_total",
		Help: "Compressed snapshot bytes received",
	})
	r.FeedDecodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cantopo_feed_decode_errors_total",
		Help: "Snapshots dropped because they failed to decode",
	})

	r.DevicesByProtocol = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cantopo_devices",
		Help: "Devices in the current snapshot by protocol",
	}, []string{"protocol"})
	r.DevicesByStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cantopo_devices_by_status",
		Help: "Devices in the current snapshot by derived status",
	}, []string{"status"})
	r.BusThroughput = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cantopo_bus_throughput_mps",
		Help: "Messages per second per bus",
	}, []string{"protocol"})

	r.SelectionChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cantopo_selection_changes_total",
		Help: "Node selection changes",
	})

	r.registry.MustRegister(
		r.FramesTotal, r.FrameDuration, r.NodesRendered, r.SnapshotAge,
		r.SnapshotsReceived, r.SnapshotBytesTotal, r.FeedDecodeErrors,
		r.DevicesByProtocol, r.DevicesByStatus, r.BusThroughput,
		r.SelectionChanges,
	)
	return r
}

// Gatherer exposes the underlying prometheus gatherer, for scrape
// handlers and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordFrame records one completed frame paint
func (r *Registry) RecordFrame(duration time.Duration, nodes int) {
	r.FramesTotal.Inc()
	r.FrameDuration.Observe(duration.Seconds())
	r.NodesRendered.Set(float64(nodes))
}

// SetSnapshotAge updates the rendered-snapshot age gauge
func (r *Registry) SetSnapshotAge(age time.Duration) {
	r.SnapshotAge.Set(age.Seconds())
}

// RecordSnapshot records a snapshot received from the feed
func (r *Registry) RecordSnapshot(compressedBytes int) {
	r.SnapshotsReceived.Inc()
	r.SnapshotBytesTotal.Add(float64(compressedBytes))
}

// SetDeviceCounts replaces the per-protocol and per-status device gauges
func (r *Registry) SetDeviceCounts(byProtocol map[string]int, byStatus map[string]int) {
	r.DevicesByProtocol.Reset()
	for proto, n := range byProtocol {
		r.DevicesByProtocol.WithLabelValues(proto).Set(float64(n))
	}
	r.DevicesByStatus.Reset()
	for status, n := range byStatus {
		r.DevicesByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// SetBusThroughput replaces the per-bus throughput gauges
func (r *Registry) SetBusThroughput(mps map[string]float64) {
	r.BusThroughput.Reset()
	for proto, v := range mps {
		r.BusThroughput.WithLabelValues(proto).Set(v)
	}
}
