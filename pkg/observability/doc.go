/*
Package observability turns navigation lifecycle events into Prometheus
metrics and structured log lines.

Both are delivered as domain.LifecycleHooks, so they can be merged and handed
to the engine together.
*/
package observability
