package model

import "time"

// HistoryItem records one executed query.
type HistoryItem struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Variables string    `json:"variables,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
