// internal/chaos/experiments.go
package chaos

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/catalog"

	"github.com/google/go-cmp/cmp"
)

// Target is the catalog wiring an experiment runs against. Faults must be the
// transport the Source's remote client sends its requests through.
type Target struct {
	Source   catalog.Source
	Fallback catalog.Static
	Faults   *FaultTransport
}

const (
	MetricCatalogItems      = "catalog_items"
	MetricServedFallback    = "served_fallback"
	MetricDefaultCategories = "default_categories"
)

// RegisterExperiments registers the catalog fallback experiments with the engine.
func (e *Engine) RegisterExperiments(t Target, slowLatency time.Duration) {
	e.Register(RemoteOutageExperiment(t))
	e.Register(CategoryOutageExperiment(t))
	e.Register(SlowRemoteExperiment(t, slowLatency))
}

// RemoteOutageExperiment fails every request to the remote catalog.
func RemoteOutageExperiment(t Target) Experiment {
	return Experiment{
		Name:        "remote-catalog-outage",
		Hypothesis:  "Products are served from the fallback document when the remote catalog is unreachable",
		SteadyState: catalogMetrics(t),
		Method: []Action{
			injectAction(t, "fail-requests", Fault{Fail: true}),
		},
		Rollback: []Action{clearAction(t)},
		Validation: []Assertion{
			{
				Metric:    MetricServedFallback,
				Condition: func(v float64) bool { return v == 1 },
				Message:   "Product list should equal the fallback document",
			},
			{
				Metric:    MetricDefaultCategories,
				Condition: func(v float64) bool { return v == 1 },
				Message:   "Category list should be the default labels",
			},
		},
		Samples: 3,
	}
}

// CategoryOutageExperiment answers category requests with 503 while products stay up.
func CategoryOutageExperiment(t Target) Experiment {
	return Experiment{
		Name:        "category-endpoint-outage",
		Hypothesis:  "The default category labels are served when the category endpoint fails",
		SteadyState: catalogMetrics(t),
		Method: []Action{
			injectAction(t, "status-503", Fault{
				PathPrefix: "/products/categories",
				Status:     http.StatusServiceUnavailable,
			}),
		},
		Rollback: []Action{clearAction(t)},
		Validation: []Assertion{
			{
				Metric:    MetricDefaultCategories,
				Condition: func(v float64) bool { return v == 1 },
				Message:   "Category list should be the default labels",
			},
			{
				Metric:    MetricCatalogItems,
				Condition: func(v float64) bool { return v > 0 },
				Message:   "Products should still be listed",
			},
		},
		Samples: 1,
	}
}

// SlowRemoteExperiment delays remote responses by latency, which should exceed the
// client timeout.
func SlowRemoteExperiment(t Target, latency time.Duration) Experiment {
	return Experiment{
		Name:        "slow-remote-catalog",
		Hypothesis:  "A remote catalog slower than the client timeout degrades to the fallback document",
		SteadyState: catalogMetrics(t),
		Method: []Action{
			injectAction(t, "inject-latency", Fault{Latency: latency}),
		},
		Rollback: []Action{clearAction(t)},
		Validation: []Assertion{
			{
				Metric:    MetricServedFallback,
				Condition: func(v float64) bool { return v == 1 },
				Message:   "Product list should equal the fallback document",
			},
		},
		Samples: 1,
	}
}

func catalogMetrics(t Target) []Metric {
	return []Metric{
		{
			Name: MetricCatalogItems,
			Query: func(ctx context.Context) (float64, error) {
				items, err := t.Source.FetchItems(ctx)
				if err != nil {
					return 0, err
				}
				return float64(len(items)), nil
			},
			Threshold: Threshold{Operator: ">", Value: 0},
		},
		{
			Name: MetricServedFallback,
			Query: func(ctx context.Context) (float64, error) {
				items, err := t.Source.FetchItems(ctx)
				if err != nil {
					return 0, err
				}
				fallback, err := t.Fallback.Products(ctx)
				if err != nil {
					return 0, err
				}
				return boolMetric(cmp.Equal(items, fallback)), nil
			},
			Threshold: Threshold{Operator: ">=", Value: 0},
		},
		{
			Name: MetricDefaultCategories,
			Query: func(ctx context.Context) (float64, error) {
				return boolMetric(cmp.Equal(t.Source.FetchCategories(ctx), catalog.DefaultCategories())), nil
			},
			Threshold: Threshold{Operator: ">=", Value: 0},
		},
	}
}

func injectAction(t Target, kind string, f Fault) Action {
	return Action{
		Type:   kind,
		Target: "catalog-remote",
		Execute: func(context.Context) error {
			t.Faults.Inject(f)
			return nil
		},
	}
}

func clearAction(t Target) Action {
	return Action{
		Type:   "clear-fault",
		Target: "catalog-remote",
		Execute: func(context.Context) error {
			t.Faults.Clear()
			return nil
		},
	}
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
