// Package events defines the messages that are sent to Kafka.
package events

import "time"

// RollEvent represents one persisted dice roll.
type RollEvent struct {
	Value    int       `json:"value"`
	Forced   bool      `json:"forced"`
	RolledAt time.Time `json:"rolledAt"`
}
