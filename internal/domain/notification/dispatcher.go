package notification

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Notified is the receipt literal reported per role
const Notified = "NOTIFIED"

// DispatchResult reports the outcome of a single Notify call. It never
// carries an error back into the workflow; Err is informational.
type DispatchResult struct {
	Role           Role
	NotificationID uuid.UUID
	Accepted       bool
	Duplicate      bool
	Err            error
}

// Dispatcher fans typed notifications out to stakeholder roles on a
// best-effort, at-most-once basis.
type Dispatcher interface {
	Notify(ctx context.Context, role Role, payload Payload) DispatchResult
}

// Receipt is the role → "NOTIFIED" map embedded in transition responses
type Receipt map[string]string

// Roles returns the notified roles in sorted order
func (r Receipt) Roles() []string {
	roles := make([]string, 0, len(r))
	for role := range r {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Recipient addresses one role, optionally narrowed to a single holder
type Recipient struct {
	Role Role
	ID   string
}

// NotifyAll dispatches payload to every role and builds the receipt. The
// receipt lists every known role the transition addressed; storage or sink
// failures are the dispatcher's to log and do not change it.
func NotifyAll(ctx context.Context, d Dispatcher, payload Payload, roles ...Role) Receipt {
	recipients := make([]Recipient, len(roles))
	for i, role := range roles {
		recipients[i] = Recipient{Role: role, ID: payload.RecipientID}
	}
	return NotifyRecipients(ctx, d, payload, recipients...)
}

// NotifyRecipients is NotifyAll with a recipient id per role
func NotifyRecipients(ctx context.Context, d Dispatcher, payload Payload, recipients ...Recipient) Receipt {
	receipt := make(Receipt, len(recipients))
	if d == nil {
		return receipt
	}
	for _, r := range recipients {
		p := payload
		p.RecipientID = r.ID
		d.Notify(ctx, r.Role, p)
		if r.Role.IsValid() {
			receipt[string(r.Role)] = Notified
		}
	}
	return receipt
}

// Sink delivers a persisted notification to one external channel
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *Notification) error
}
