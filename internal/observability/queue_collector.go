package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"hopper/internal/queue"
)

// queueDepthCollector exposes per-state queue gauges computed by a fresh
// stats walk at scrape time.
type queueDepthCollector struct {
	store *queue.Store

	jobs    *prometheus.Desc
	locked  *prometheus.Desc
	orphans *prometheus.Desc
	bytes   *prometheus.Desc
}

func newQueueDepthCollector(store *queue.Store) *queueDepthCollector {
	labels := []string{"state"}
	return &queueDepthCollector{
		store:   store,
		jobs:    prometheus.NewDesc("hopper_queue_jobs", "Valid unlocked job pairs per state.", labels, nil),
		locked:  prometheus.NewDesc("hopper_queue_locked_jobs", "Valid locked job pairs per state.", labels, nil),
		orphans: prometheus.NewDesc("hopper_queue_orphans", "Unpaired artifact files per state.", labels, nil),
		bytes:   prometheus.NewDesc("hopper_queue_bytes", "Total bytes stored per state.", labels, nil),
	}
}

func (c *queueDepthCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.jobs
	ch <- c.locked
	ch <- c.orphans
	ch <- c.bytes
}

func (c *queueDepthCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.CollectStats()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.jobs, err)
		return
	}
	for _, state := range queue.AllStates() {
		perState := stats.States[state]
		label := string(state)
		ch <- prometheus.MustNewConstMetric(c.jobs, prometheus.GaugeValue, float64(perState.Jobs), label)
		ch <- prometheus.MustNewConstMetric(c.locked, prometheus.GaugeValue, float64(perState.LockedJobs), label)
		ch <- prometheus.MustNewConstMetric(c.orphans, prometheus.GaugeValue, float64(perState.Orphans), label)
		ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(perState.Bytes), label)
	}
}
