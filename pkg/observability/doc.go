/*
Package observability provides tools for monitoring model graphs.

Metrics exports Prometheus counters fed by graph and history hooks, and
Aggregator records the events emitted by any number of models for auditing
and tests.
*/
package observability
