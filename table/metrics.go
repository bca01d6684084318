package table

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arloliu/ktable/errs"
)

const (
	opEncode = "encode"
	opDecode = "decode"
)

// Metrics holds the table codec metrics. A nil *Metrics records nothing.
type Metrics struct {
	tables   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the codec metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		tables: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "ktable",
			Name:      "tables_total",
			Help:      "Total number of tables encoded or decoded.",
		}, []string{"op"}),
		bytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "ktable",
			Name:      "bytes_total",
			Help:      "Total size of encoded tables produced or consumed, header included.",
		}, []string{"op"}),
		failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "ktable",
			Name:      "failures_total",
			Help:      "Total number of failed encode or decode calls by error category.",
		}, []string{"op", "category"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ktable",
			Name:      "duration_seconds",
			Help:      "Time spent encoding or opening a table.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us to ~26s
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op string, start time.Time, size int, err error) {
	if m == nil {
		return
	}

	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(op, category(err)).Inc()
		return
	}
	m.tables.WithLabelValues(op).Inc()
	m.bytes.WithLabelValues(op).Add(float64(size))
}

func category(err error) string {
	switch {
	case errors.Is(err, errs.ErrSchema):
		return "schema"
	case errors.Is(err, errs.ErrConversion):
		return "conversion"
	case errors.Is(err, errs.ErrType):
		return "type"
	case errors.Is(err, errs.ErrEncoding):
		return "encoding"
	case errors.Is(err, errs.ErrDecoding):
		return "decoding"
	default:
		return "other"
	}
}
