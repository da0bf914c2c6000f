/*
Package observability turns resolver lifecycle hooks into Prometheus metrics.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := portals.New(dir, portals.WithLifecycleHooks(metrics.Hooks()))

Diagnostics are counted by failure kind so dashboards can tell unconfigured
Receivers (placeholder_name) apart from dangling or conflicting ones.
*/
package observability
