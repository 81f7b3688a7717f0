package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Ballot collectors
var (
	BallotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evoting",
		Name:      "ballots_total",
		Help:      "Ballot submissions by outcome",
	}, []string{"outcome"})
	VotesCastTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evoting",
		Name:      "votes_cast_total",
		Help:      "Vote rows committed",
	})
	BallotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evoting",
		Name:      "ballot_duration_seconds",
		Help:      "Time spent validating and committing a ballot",
		Buckets:   prometheus.DefBuckets,
	})
)

// Register adds the collectors to the default registry, logging instead of
// failing when one is already registered.
func Register() {
	for _, c := range []prometheus.Collector{BallotsTotal, VotesCastTotal, BallotDuration} {
		if err := prometheus.Register(c); err != nil {
			zap.L().Warn("cannot register metric", zap.Error(err))
		}
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Recorder feeds ballot outcomes into the package collectors.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (Recorder) ObserveBallot(outcome string, votes int, elapsed time.Duration) {
	BallotsTotal.WithLabelValues(outcome).Inc()
	if votes > 0 {
		VotesCastTotal.Add(float64(votes))
	}
	BallotDuration.Observe(elapsed.Seconds())
}
