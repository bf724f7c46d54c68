package model

import "time"

// Kind discriminates how a movie's payload must be interpreted.  A movie is
// either an external link or a video previously uploaded to Telegram, in
// which case the payload is the platform-assigned file_id.  Render and
// dispatch sites switch on Kind and must treat any other value as unknown.
type Kind string

const (
	KindLink  Kind = "link"  // payload is an absolute http(s) URL
	KindVideo Kind = "video" // payload is a Telegram video file_id
)

// Movie represents a stored content record as persisted in the `movies`
// table.  The short code is the primary key and the only lookup handle users
// ever see.  Re-submitting an existing code overwrites the whole row
// (last-writer-wins, no versioning), and CreatedAt is refreshed on every
// upsert.
type Movie struct {
	Code      string    // movies.code, matches ^[A-Za-z0-9_-]{1,32}$
	Title     string    // movies.title, non-empty display string
	Kind      Kind      // movies.kind
	Payload   string    // movies.payload, URL or file_id depending on Kind
	CreatedAt time.Time // movies.created_at, set on insert and refreshed on update
}
