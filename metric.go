package dynft

import (
	"github.com/everFinance/dynft/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "dynft"
)

var (
	nftMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "nft_minted",
			Help:      "minted nft items",
		},
		[]string{"collection"},
	)
	eventWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "event_written",
			Help:      "events appended to nft logs",
		},
		[]string{"collection"},
	)
	malformedRecord = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "malformed_history_record",
			Help:      "history records dropped on json parse failure",
		},
	)
	drainRetry = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "drain_retry",
			Help:      "log subscription retries",
		},
	)
	collectionMints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "collection_mints",
			Help:      "recorded mints per collection",
		},
		[]string{"collection"},
	)
	collectionEvents = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "collection_events",
			Help:      "recorded events per collection",
		},
		[]string{"collection"},
	)
)

func init() {
	prometheus.MustRegister(
		nftMinted,
		eventWritten,
		malformedRecord,
		drainRetry,
		collectionMints,
		collectionEvents,
	)
}

func metricNftMinted(collection string) {
	nftMinted.WithLabelValues(collection).Inc()
}

func metricEventWritten(collection string) {
	eventWritten.WithLabelValues(collection).Inc()
}

func metricMalformedRecord() {
	malformedRecord.Inc()
}

func metricDrainRetry() {
	drainRetry.Inc()
}

func metricCollectionStat(stat schema.CollectionStat) {
	collectionMints.WithLabelValues(stat.CollectionId).Set(float64(stat.Mints))
	collectionEvents.WithLabelValues(stat.CollectionId).Set(float64(stat.Events))
}
