package events

import "time"

const AccountLockedTopic = "bank.account.lock.v1"

// AccountLockedEvent is queued through the outbox whenever a lockout fires,
// either by failed attempts or by an admin override. The consumer turns it
// into a notification email.
type AccountLockedEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id,omitempty"`
	Account          string    `json:"account"`
	Role             string    `json:"role"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	VerificationCode string    `json:"verification_code,omitempty"`
	AdminOverride    bool      `json:"admin_override"`
	OccurredAt       time.Time `json:"occurred_at"`
}
