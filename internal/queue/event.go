// Package queue defines message payloads exchanged over the message broker.
package queue

// MovieSavedEvent is published when the submission wizard commits a movie.
// It contains enough information for downstream consumers to log or notify
// without querying the primary database.
type MovieSavedEvent struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	UserID  int64  `json:"user_id"`
	SavedAt string `json:"saved_at"`
}
