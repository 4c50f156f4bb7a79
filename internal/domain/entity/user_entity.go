package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Password only ever holds a bcrypt hash; it is empty when no password was set.
// DeletedAt marks a soft-deleted account and is never cleared.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Roles     []string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
