package models

import "time"

// Reading is a single temperature/humidity sample.
type Reading struct {
	ID          string    `json:"id" db:"id"`
	Timestamp   string    `json:"timestamp" db:"timestamp"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Humidity    float64   `json:"humidity" db:"humidity"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
