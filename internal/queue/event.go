// Package queue defines message payloads exchanged over the message
// broker, the publisher that emits them and the background consumer.
package queue

// PhotoTransformedEvent is published after a transformation has been
// materialized and persisted. It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type PhotoTransformedEvent struct {
	PhotoID        uint64 `json:"photo_id"`
	OwnerID        uint64 `json:"owner_id"`
	PublicID       string `json:"public_id"`
	TransformedURL string `json:"transformed_url"`
	OpCount        int    `json:"op_count"`
	TransformedAt  string `json:"transformed_at"`
}
