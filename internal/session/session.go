// Package session tracks per-user submission wizard state.  A session is
// ephemeral by contract: it is created when a submission flow starts,
// destroyed on successful completion, and otherwise persists until it is
// overwritten.  There is no timeout; a user parked in the middle of the
// wizard stays there until their next input.
package session

import "context"

// State is the position of a user inside the three-step submission wizard.
type State string

const (
	StateNone            State = ""        // no submission in progress
	StateAwaitingCode    State = "code"    // waiting for the short lookup code
	StateAwaitingTitle   State = "title"   // waiting for the display title
	StateAwaitingContent State = "content" // waiting for a link or an uploaded video
)

// Session carries the draft fields collected so far.  DraftCode is only
// meaningful once the code step has been passed, DraftTitle once the title
// step has been passed.
type Session struct {
	State      State  `json:"state"`
	DraftCode  string `json:"draft_code,omitempty"`
	DraftTitle string `json:"draft_title,omitempty"`
}

// Store is the session persistence abstraction injected into the bot.  Get
// returns the zero Session (StateNone) for users with no stored session so
// callers never special-case absence.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Put(ctx context.Context, userID int64, s Session) error
	Clear(ctx context.Context, userID int64) error
}
