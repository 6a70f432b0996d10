package schema

import (
	"time"
)

// AccountRole tells whether an account asks for help or offers it
type AccountRole string

const (
	RoleUser      AccountRole = "user"
	RoleVolunteer AccountRole = "volunteer"
)

func (r AccountRole) Valid() bool {
	return r == RoleUser || r == RoleVolunteer
}

// Account is a registered user of the service. PushToken is the device token
// known by the push gateway and is empty when the device never registered one.
type Account struct {
	ID        string      `json:"id" gorm:"primary_key"`
	Email     string      `json:"email" gorm:"unique_index"`
	FullName  string      `json:"full_name"`
	Role      AccountRole `json:"role" gorm:"index"`
	Phone     string      `json:"phone,omitempty"`
	PushToken string      `json:"-"`
	Language  string      `json:"language,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// HasPushToken reports whether a notification can be delivered to the account
func (a Account) HasPushToken() bool {
	return a.PushToken != ""
}
