package otel

import "go.opentelemetry.io/otel/metric"

// Metrics holds all searchgate metric instruments.
type Metrics struct {
	SearchDuration   metric.Float64Histogram
	ProviderDuration metric.Float64Histogram
	ProviderErrors   metric.Int64Counter
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
	Rejections       metric.Int64Counter
}

// NewMetrics creates all metric instruments from the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.SearchDuration, err = meter.Float64Histogram("searchgate.search.duration",
		metric.WithDescription("End-to-end search operation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.ProviderDuration, err = meter.Float64Histogram("searchgate.provider.duration",
		metric.WithDescription("Outbound provider call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.ProviderErrors, err = meter.Int64Counter("searchgate.provider.errors",
		metric.WithDescription("Provider transport failure count"),
	)
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("searchgate.cache.hits",
		metric.WithDescription("Search cache hits"),
	)
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("searchgate.cache.misses",
		metric.WithDescription("Search cache misses"),
	)
	if err != nil {
		return nil, err
	}

	m.Rejections, err = meter.Int64Counter("searchgate.rejections",
		metric.WithDescription("Pre-flight structured rejections by code"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
