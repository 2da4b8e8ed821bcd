package entity

import "time"

// Confirmation is a time-boxed, single-use record authorizing activation
// of a user account via an emailed link. A user accumulates confirmations
// over time (resends supersede, they do not delete); at most one should be
// pending at any moment.
type Confirmation struct {
	ID        string
	UserID    uint64
	ExpireAt  time.Time
	Confirmed bool
	CreatedAt time.Time
}

func (c *Confirmation) Expired(now time.Time) bool {
	return !now.Before(c.ExpireAt)
}
