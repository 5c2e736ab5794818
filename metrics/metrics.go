// Package metrics exposes store activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

// Observer counts store notifications. It satisfies store.Observer and
// store.RefusalObserver.
type Observer struct {
	registry      *prometheus.Registry
	pages         prometheus.Gauge
	trash         prometheus.Gauge
	pageChanges   prometheus.Counter
	activeChanges prometheus.Counter
	searchUpdates prometheus.Counter
	searchResults prometheus.Gauge
	refusals      *prometheus.CounterVec
}

// New creates an Observer with its own registry.
func New() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "outliner", Name: "pages",
			Help: "Number of live pages.",
		}),
		trash: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "outliner", Name: "trash_pages",
			Help: "Number of pages in the trash.",
		}),
		pageChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outliner", Name: "page_changes_total",
			Help: "Committed mutations of the page collection.",
		}),
		activeChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outliner", Name: "active_page_changes_total",
			Help: "Times the active page changed.",
		}),
		searchUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outliner", Name: "search_updates_total",
			Help: "Search result notifications.",
		}),
		searchResults: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "outliner", Name: "search_results",
			Help: "Size of the latest search result list.",
		}),
		refusals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outliner", Name: "refusals_total",
			Help: "Operations refused by the store, by operation.",
		}, []string{"op"}),
	}
	o.registry.MustRegister(
		o.pages, o.trash,
		o.pageChanges, o.activeChanges,
		o.searchUpdates, o.searchResults,
		o.refusals,
	)
	return o
}

// Registry returns the registry the metrics are registered on.
func (o *Observer) Registry() *prometheus.Registry { return o.registry }

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// SetCounts sets the page gauges directly, for use right after open.
func (o *Observer) SetCounts(pages, trash int) {
	o.pages.Set(float64(pages))
	o.trash.Set(float64(trash))
}

func (o *Observer) PagesChanged(pages, trash []types.Page) {
	o.pageChanges.Inc()
	o.SetCounts(len(pages), len(trash))
}

func (o *Observer) ActivePageChanged(types.Page) {
	o.activeChanges.Inc()
}

func (o *Observer) SearchResultsChanged(results []search.Result, _ int) {
	o.searchUpdates.Inc()
	o.searchResults.Set(float64(len(results)))
}

func (o *Observer) Refused(op string, _ error) {
	o.refusals.WithLabelValues(op).Inc()
}
