// Package promhooks exports r6y lifecycle events as Prometheus counters.
//
// Create a [Metrics] with the registerer of your choice and pass
// [Metrics.Hooks] to r6y.WithHooks, optionally chained with other hooks
// through r6y.ChainHooks.
package promhooks
