// Package instrument exports engine and inspector telemetry.
//
// Metrics is a Prometheus collector that implements elem.Observer and can be
// installed with elem.SetObserver:
//
//	m := instrument.NewMetrics(instrument.WithRegistry(reg))
//	elem.SetObserver(m)
//
// Metrics.Middleware and Tracing wrap HTTP handlers; both are written for
// chi routers and label requests by route pattern rather than raw path.
package instrument
