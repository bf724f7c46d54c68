package membership

import "context"

// Verdict is the gate's binary decision plus the context a caller needs to
// render the join prompt.  The gate itself renders no UI.
type Verdict struct {
	Allowed bool
	Invite  string // channel invite link to offer when denied
}

// Gate wraps every user-facing operation.  It is idempotent and
// side-effect-free beyond the outbound oracle query; a denied verdict never
// carries an error because the decision is deliberately binary.
type Gate struct {
	oracle Oracle
	invite string
}

// NewGate builds a gate over the given oracle.  invite is the join link
// offered to denied users.
func NewGate(oracle Oracle, invite string) *Gate {
	return &Gate{oracle: oracle, invite: invite}
}

// Check returns Allowed when the oracle reports the user as a channel
// member.  Oracle failures have already been collapsed to NotMember, so a
// broken transport denies access instead of crashing or silently allowing.
func (g *Gate) Check(ctx context.Context, userID int64) Verdict {
	return Verdict{
		Allowed: g.oracle.Status(ctx, userID) == Member,
		Invite:  g.invite,
	}
}
