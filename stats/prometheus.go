package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Tracker to prometheus.Collector so the local usage
// counters can be scraped. Values are read from a snapshot at collection
// time; the tracker remains the source of truth.
type Collector struct {
	tracker *Tracker

	totalRequests *prometheus.Desc
	totalCost     *prometheus.Desc
	totalSavings  *prometheus.Desc
	providerReqs  *prometheus.Desc
	providerCost  *prometheus.Desc
}

// NewCollector creates a collector over the given tracker. Register it
// with a prometheus.Registerer to expose the metrics.
func NewCollector(tracker *Tracker) *Collector {
	return &Collector{
		tracker: tracker,

		totalRequests: prometheus.NewDesc(
			"relay_requests_total",
			"Total number of dispatched requests",
			nil, nil,
		),
		totalCost: prometheus.NewDesc(
			"relay_cost_usd_total",
			"Total AI cost in USD",
			nil, nil,
		),
		totalSavings: prometheus.NewDesc(
			"relay_savings_usd_total",
			"Total savings versus the baseline cost in USD",
			nil, nil,
		),
		providerReqs: prometheus.NewDesc(
			"relay_provider_requests_total",
			"Dispatched requests by provider",
			[]string{"provider"}, nil,
		),
		providerCost: prometheus.NewDesc(
			"relay_provider_cost_usd_total",
			"AI cost in USD by provider",
			[]string{"provider"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalRequests
	ch <- c.totalCost
	ch <- c.totalSavings
	ch <- c.providerReqs
	ch <- c.providerCost
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.tracker.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.totalRequests, prometheus.CounterValue, float64(snap.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.totalCost, prometheus.CounterValue, snap.TotalCost)
	ch <- prometheus.MustNewConstMetric(c.totalSavings, prometheus.CounterValue, snap.TotalSavings)

	for provider, usage := range snap.Providers {
		ch <- prometheus.MustNewConstMetric(c.providerReqs, prometheus.CounterValue, float64(usage.Requests), provider)
		ch <- prometheus.MustNewConstMetric(c.providerCost, prometheus.CounterValue, usage.Cost, provider)
	}
}
