package entity

import "time"

// Base holds the columns the store assigns itself.
type Base struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsNew reports whether the record has not been persisted yet.
func (b Base) IsNew() bool {
	return b.ID == 0
}
