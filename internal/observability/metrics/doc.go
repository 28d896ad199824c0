// Package metrics provides Prometheus metrics for the ingestion pipeline,
// cache gate, and article resolver, plus record helpers that keep label
// cardinality under control at the call sites.
package metrics
