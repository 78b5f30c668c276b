// Package metrics provides build observability for malvolio.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and costs nothing; PrometheusRecorder backs the /metrics
// endpoint exposed by serve mode:
//
//	reg := prometheus.NewRegistry()
//	builder := site.New(cfg, engine, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
