// Package metric holds the prometheus counters of a rightkit process.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Namespace prefixes every metric name.
const Namespace = "rightkit"

// IncrementalCounter is what components depend on; tests may pass nil.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is a labeled prometheus counter.
type Counter struct {
	Name string
	vec  *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// Value returns the current count for the label values.
func (c *Counter) Value(val ...string) float64 {
	var m dto.Metric
	if err := c.vec.WithLabelValues(val...).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// NewCounterWithRegistry creates rightkit_<name> and registers it with reg.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	reg.MustRegister(vec)
	return &Counter{Name: prometheus.BuildFQName(Namespace, "", name), vec: vec}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Set holds the counters of one process.
type Set struct {
	MenuLoads     *Counter
	MenuBuilds    *Counter
	Invalidations *Counter
	Actions       *Counter
}

// NewSet registers all counters with reg.
func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		MenuLoads:     NewCounterWithRegistry(reg, "menu_loads_total", "Configuration loads performed by the menu cache."),
		MenuBuilds:    NewCounterWithRegistry(reg, "menu_builds_total", "Menu build requests.", "cache"),
		Invalidations: NewCounterWithRegistry(reg, "menu_invalidations_total", "Menu cache invalidations.", "source"),
		Actions:       NewCounterWithRegistry(reg, "actions_total", "Dispatched menu actions.", "type", "result"),
	}
}

// GetHandlerForRegistry serves reg in the prometheus exposition format.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
