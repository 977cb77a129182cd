package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Outcome string

const (
	Success       Outcome = "success"
	Error         Outcome = "error"
	Added         Outcome = "added"
	AlreadyMember Outcome = "already_member"
)

func (o Outcome) String() string {
	return string(o)
}

// Collectors exist from package load so recording never needs Init; Init only
// registers them with the default registry.
var (
	once sync.Once

	poolCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pool_created_total",
			Help: "The total number of pools created",
		},
	)

	poolJoinCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_join_total",
			Help: "Join attempts split by outcome",
		},
		[]string{"outcome"},
	)

	distributionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_distribution_total",
			Help: "Distributions split by execution status",
		},
		[]string{"status"},
	)

	distributedAmountCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pool_distributed_amount_total",
			Help: "Sum of pool amounts paid out by recorded distributions",
		},
	)

	storeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_store_duration_seconds",
			Help:    "Ledger store latency in seconds split by driver, operation and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"driver", "op", "status"},
	)
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			poolCreatedCounter,
			poolJoinCounter,
			distributionCounter,
			distributedAmountCounter,
			storeLatency,
		)
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordPoolCreated() {
	poolCreatedCounter.Inc()
}

func RecordPoolJoin(outcome Outcome) {
	poolJoinCounter.WithLabelValues(outcome.String()).Inc()
}

func RecordDistribution(status Outcome, amount decimal.Decimal) {
	distributionCounter.WithLabelValues(status.String()).Inc()
	if status == Success {
		distributedAmountCounter.Add(amount.InexactFloat64())
	}
}

func RecordStoreLatency(d time.Duration, driver, op string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	storeLatency.WithLabelValues(driver, op, status.String()).Observe(d.Seconds())
}
