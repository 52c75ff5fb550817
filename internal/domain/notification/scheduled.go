// internal/domain/notification/scheduled.go
package notification

import "time"

// Payload is the extra data attached to a notification.
type Payload struct {
	Type  Kind   `json:"type"`
	Month int    `json:"month,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Scheduled is one notification request. The whole set is recomputed on every
// settings change, so these are never updated in place.
type Scheduled struct {
	ID      int
	Kind    Kind
	Title   string
	Body    string
	FireAt  time.Time
	Payload Payload
}

// Pending is a scheduled notification as held by the platform for one chat.
type Pending struct {
	Scheduled
	ChatID    int64
	ChannelID string
	BatchID   string
	Attempts  int // failed delivery attempts so far
	CreatedAt time.Time
}
