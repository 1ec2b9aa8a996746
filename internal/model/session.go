package model

import "time"

const (
	SessionTTL         = time.Hour * 8
	SessionTTLRemember = time.Hour * 24 * 30
)

// Session is the server-side record behind a bearer token. The token only
// carries the session ID; the member snapshot is reloaded on every request
// so permission changes take effect immediately.
type Session struct {
	ID         string `gorm:"primaryKey;size:36"`
	MemberID   uint   `gorm:"index;not null"`
	Member     *Member
	CreatedAt  time.Time
	ExpiresAt  time.Time `gorm:"index;not null"`
	RememberMe bool      `gorm:"not null;default:false"`
}

func (s *Session) Expired() bool {
	return s == nil || time.Now().After(s.ExpiresAt)
}
