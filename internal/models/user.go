package models

import (
	"strings"

	"gorm.io/gorm"
)

// User represents a person using Splitify.
//
// Authentication is handled outside of this backend, the user record only
// carries what the ledger needs for display.
type User struct {
	DefaultModel
	Username string `json:"username" gorm:"uniqueIndex"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return ErrNameEmpty
	}

	return nil
}
