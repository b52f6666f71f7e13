package entity

import (
	"fmt"
	"time"
)

// User is the aggregate root for the user domain.
// ID is zero until the repository persists the entity for the first time.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser builds an unsaved draft; id and timestamps are assigned on Save.
func NewUser(name, email, bio string) *User {
	return &User{Name: name, Email: email, Bio: bio}
}

// Saved reports whether the entity has been persisted.
func (u *User) Saved() bool {
	return u.ID != 0
}

// Equal compares identity: both id and email must match. Two unsaved users
// with the same email compare equal; callers that need strict identity
// should check Saved() first.
func (u *User) Equal(other *User) bool {
	if other == nil {
		return false
	}
	return u.ID == other.ID && u.Email == other.Email
}

func (u *User) String() string {
	return fmt.Sprintf("User{id=%d, name=%q, email=%q, createdAt=%s, updatedAt=%s}",
		u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339), u.UpdatedAt.Format(time.RFC3339))
}
