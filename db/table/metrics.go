package table

import (
	"github.com/navijation/njtable/storage/row"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonSchemaMismatch  = "schema_mismatch"
	reasonNullPrimaryKey  = "null_primary_key"
	reasonTypeMismatch    = "type_mismatch"
	reasonUnsupportedType = "unsupported_type"
	reasonTooLarge        = "too_large"
	reasonDuplicateKey    = "duplicate_key"
	reasonOther           = "other"
)

// Metrics holds the Prometheus collectors a Table reports to.
type Metrics struct {
	rowsEncoded    *prometheus.CounterVec
	encodeFailures *prometheus.CounterVec
	valueSizeBytes *prometheus.HistogramVec
	keySizeBytes   *prometheus.HistogramVec
	rowsDecoded    *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
}

// NewMetrics registers the table collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		rowsEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njtable_rows_encoded_total",
				Help: "Rows encoded and written to a backend",
			},
			[]string{"table"},
		),
		encodeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njtable_row_encode_failures_total",
				Help: "Rows rejected before reaching a backend",
			},
			[]string{"table", "reason"},
		),
		valueSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "njtable_encoded_value_bytes",
				Help:    "Size of encoded value buffers, header included",
				Buckets: prometheus.ExponentialBuckets(8, 4, 8),
			},
			[]string{"table"},
		),
		keySizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "njtable_encoded_key_bytes",
				Help:    "Size of encoded key buffers",
				Buckets: prometheus.ExponentialBuckets(4, 2, 8),
			},
			[]string{"table"},
		),
		rowsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njtable_rows_decoded_total",
				Help: "Rows read back from a backend",
			},
			[]string{"table"},
		),
		decodeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njtable_row_decode_failures_total",
				Help: "Stored records that failed to decode",
			},
			[]string{"table"},
		),
	}
}

func (me *Metrics) RecordEncoded(table string, encoded row.Encoded) {
	me.rowsEncoded.WithLabelValues(table).Inc()
	me.valueSizeBytes.WithLabelValues(table).Observe(float64(len(encoded.Value)))
	me.keySizeBytes.WithLabelValues(table).Observe(float64(len(encoded.Key)))
}

func (me *Metrics) RecordEncodeFailure(table string, err error) {
	me.encodeFailures.WithLabelValues(table, failureReason(err)).Inc()
}

func (me *Metrics) RecordDecoded(table string, err error) {
	if err != nil {
		me.decodeFailures.WithLabelValues(table).Inc()
		return
	}
	me.rowsDecoded.WithLabelValues(table).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, row.ErrSchemaMismatch):
		return reasonSchemaMismatch
	case errors.Is(err, row.ErrNullPrimaryKey):
		return reasonNullPrimaryKey
	case errors.Is(err, row.ErrTypeMismatch):
		return reasonTypeMismatch
	case errors.Is(err, row.ErrUnsupportedType):
		return reasonUnsupportedType
	case errors.Is(err, row.ErrRecordTooLarge):
		return reasonTooLarge
	case errors.Is(err, ErrDuplicateKey):
		return reasonDuplicateKey
	default:
		return reasonOther
	}
}
