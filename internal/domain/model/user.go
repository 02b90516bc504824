package model

import "time"

// User is the externally-owned tenant profile. Only the fields this core
// needs are modeled: the stable identifier and the contact used as the
// last-resort payer lookup when a correlation token cannot be decoded.
type User struct {
	ID        string
	Name      string
	Contact   string // e-mail or phone given to the payment provider
	CreatedAt time.Time
}
