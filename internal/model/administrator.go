package model

import (
	"strings"
	"time"
)

// AdminLevel is the privilege tier of an administrator overlay.
type AdminLevel string

const (
	AdminSuper     AdminLevel = "super"
	AdminModerator AdminLevel = "moderator"
	AdminSupport   AdminLevel = "support"
)

// Valid reports whether l is a known level.
func (l AdminLevel) Valid() bool {
	switch l {
	case AdminSuper, AdminModerator, AdminSupport:
		return true
	}
	return false
}

// ParseAdminLevel is case-insensitive.
func ParseAdminLevel(s string) (AdminLevel, error) {
	l := AdminLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", invalid("level", "level must be one of: super, moderator, support")
	}
	return l, nil
}

// Administrator is an optional overlay on a user.
type Administrator struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Level       AdminLevel `json:"level"`
	Permissions []string   `json:"permissions"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AdministratorRequest is the body of POST/PUT /administrators.
type AdministratorRequest struct {
	UserID      int64      `json:"userId"`
	Level       AdminLevel `json:"level"`
	Permissions []string   `json:"permissions"`
}

// Validate checks required fields.
func (r AdministratorRequest) Validate() error {
	if r.UserID == 0 {
		return invalid("userId", "user is required")
	}
	if !r.Level.Valid() {
		return invalid("level", "level must be one of: super, moderator, support")
	}
	return nil
}
