package zunderbolt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements MetricsCollector with Prometheus instruments.
type PrometheusCollector struct {
	opens       *prometheus.CounterVec
	ioOps       *prometheus.CounterVec
	ioBytes     *prometheus.CounterVec
	ioDuration  *prometheus.HistogramVec
	bufferGrows prometheus.Counter
	readClamps  prometheus.Counter
	copies      *prometheus.CounterVec
	copyBytes   prometheus.Counter
}

// NewPrometheusCollector creates the instruments and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	const ns = "zunderbolt"
	p := &PrometheusCollector{
		opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "stream_opens_total",
			Help: "Stream open attempts by mode and result.",
		}, []string{"mode", "result"}),
		ioOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "physical_io_total",
			Help: "Physical reads and writes issued to the platform.",
		}, []string{"op", "result"}),
		ioBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "physical_io_bytes_total",
			Help: "Bytes transferred by physical reads and writes.",
		}, []string{"op"}),
		ioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "physical_io_duration_seconds",
			Help:    "Latency of physical reads and writes.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		bufferGrows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "buffer_grows_total",
			Help: "Stream cache reallocations.",
		}),
		readClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "read_clamps_total",
			Help: "Reads truncated at end of stream.",
		}),
		copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "copies_total",
			Help: "Batch copies by result.",
		}, []string{"result"}),
		copyBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "copy_bytes_total",
			Help: "Bytes moved by batch copies.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.opens, p.ioOps, p.ioBytes, p.ioDuration, p.bufferGrows, p.readClamps, p.copies, p.copyBytes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordOpen implements MetricsCollector.
func (p *PrometheusCollector) RecordOpen(mode string, err error) {
	p.opens.WithLabelValues(mode, result(err)).Inc()
}

// RecordPhysicalRead implements MetricsCollector.
func (p *PrometheusCollector) RecordPhysicalRead(bytes int, duration time.Duration, err error) {
	p.recordIO("read", bytes, duration, err)
}

// RecordPhysicalWrite implements MetricsCollector.
func (p *PrometheusCollector) RecordPhysicalWrite(bytes int, duration time.Duration, err error) {
	p.recordIO("write", bytes, duration, err)
}

func (p *PrometheusCollector) recordIO(op string, bytes int, duration time.Duration, err error) {
	p.ioOps.WithLabelValues(op, result(err)).Inc()
	p.ioBytes.WithLabelValues(op).Add(float64(bytes))
	p.ioDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordBufferGrow implements MetricsCollector.
func (p *PrometheusCollector) RecordBufferGrow(int) {
	p.bufferGrows.Inc()
}

// RecordReadClamp implements MetricsCollector.
func (p *PrometheusCollector) RecordReadClamp(int, int) {
	p.readClamps.Inc()
}

// RecordCopy implements MetricsCollector.
func (p *PrometheusCollector) RecordCopy(bytes int64, _ int, _ time.Duration, err error) {
	p.copies.WithLabelValues(result(err)).Inc()
	p.copyBytes.Add(float64(bytes))
}
