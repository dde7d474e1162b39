// Package events publishes newly reconciled sales to a Kafka topic.
//
// Publisher is a reconcile.Hook: after a pass appends records, each record is
// written as one JSON message keyed by its dedup key, so consumers partitioned by
// key see the sales of a ticket in order. Publishing is best effort; the history
// store remains the source of truth.
package events
