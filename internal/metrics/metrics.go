// Package metrics exposes Prometheus collectors for the message bus client
// and the editor session.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for one application instance. It
// uses its own registry so several instances can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	Published  *prometheus.CounterVec
	Bytes      prometheus.Counter
	Delivered  *prometheus.CounterVec
	Connected  prometheus.Gauge
	Reconnects prometheus.Counter

	GraphChanges *prometheus.CounterVec
	Nodes        prometheus.Gauge
	Links        prometheus.Gauge
}

// NewCollector creates and registers every metric under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pubsub_published_total",
				Help:      "Messages published, by result.",
			},
			[]string{"result"},
		),
		Bytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pubsub_published_bytes_total",
				Help:      "Payload bytes handed to the transport.",
			},
		),
		Delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pubsub_delivered_total",
				Help:      "Messages delivered to subscribers, by pattern.",
			},
			[]string{"pattern"},
		),
		Connected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pubsub_connected",
				Help:      "1 while the message bus connection is up.",
			},
		),
		Reconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pubsub_connects_total",
				Help:      "Successful message bus connections, including reconnects.",
			},
		),
		GraphChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "editor_graph_changes_total",
				Help:      "Graph changes seen by the session, by kind and origin.",
			},
			[]string{"kind", "origin"},
		),
		Nodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "editor_nodes",
				Help:      "Nodes currently in the editor.",
			},
		),
		Links: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "editor_links",
				Help:      "Committed links currently in the editor.",
			},
		),
	}

	registry.MustRegister(
		c.Published,
		c.Bytes,
		c.Delivered,
		c.Connected,
		c.Reconnects,
		c.GraphChanges,
		c.Nodes,
		c.Links,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObservePublish implements pubsub.Recorder.
func (c *Collector) ObservePublish(_ string, size int, err error) {
	if err != nil {
		c.Published.WithLabelValues("error").Inc()
		return
	}
	c.Published.WithLabelValues("ok").Inc()
	c.Bytes.Add(float64(size))
}

// ObserveDelivery implements pubsub.Recorder.
func (c *Collector) ObserveDelivery(pattern string) {
	c.Delivered.WithLabelValues(pattern).Inc()
}

// ObserveConnection implements pubsub.Recorder.
func (c *Collector) ObserveConnection(connected bool) {
	if connected {
		c.Connected.Set(1)
		c.Reconnects.Inc()
		return
	}
	c.Connected.Set(0)
}

// ObserveGraphChange counts one add, change or remove of a node or link.
func (c *Collector) ObserveGraphChange(kind, origin string) {
	c.GraphChanges.WithLabelValues(kind, origin).Inc()
}

// SetGraphSize records the current node and link counts.
func (c *Collector) SetGraphSize(nodes, links int) {
	c.Nodes.Set(float64(nodes))
	c.Links.Set(float64(links))
}
