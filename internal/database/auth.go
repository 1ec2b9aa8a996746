package database

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/projectarcadia/portal/internal/model"
)

// MaxFailedLogins is the number of consecutive bad passwords before the
// account is locked. Only an admin reset unlocks it.
const MaxFailedLogins = 5

// Authenticate checks credentials and, on success, opens a server-side
// session. A locked account is rejected before the password is checked, so
// the failure counter never moves past the lock. AttemptsLeft is reported
// alongside the error on a bad password.
func (mm *DatabaseManager) Authenticate(username, password string, remember bool) (*model.Session, error) {
	member := mm.MemberQuery().Username(username).One()

	if member == nil {
		return nil, ErrInvalidCredentials
	}

	if member.Locked {
		return nil, ErrLocked
	}

	if !member.CheckPassword(password) {
		updates := map[string]any{"failed_logins": member.FailedLogins + 1}

		if member.FailedLogins+1 >= MaxFailedLogins {
			updates["locked"] = true

			mm.logger.Warn("account locked", slog.String("username", username))
		}

		if err := mm.MemberQuery().Id(member.ID).Update(updates); err != nil {
			return nil, err
		}

		if member.FailedLogins+1 >= MaxFailedLogins {
			return nil, ErrLocked
		}

		return nil, ErrInvalidCredentials
	}

	if !member.IsActive() {
		return nil, ErrForbidden
	}

	now := time.Now()

	if err := mm.MemberQuery().Id(member.ID).Update(map[string]any{
		"failed_logins": 0,
		"last_login":    now,
	}); err != nil {
		return nil, err
	}

	ttl := model.SessionTTL
	if remember {
		ttl = model.SessionTTLRemember
	}

	s := &model.Session{
		ID:         uuid.NewString(),
		MemberID:   member.ID,
		Member:     member,
		ExpiresAt:  now.Add(ttl),
		RememberMe: remember,
	}

	if err := mm.Create(s); err != nil {
		return nil, err
	}

	return s, nil
}

// AttemptsLeft reports how many bad passwords remain before the lock. Zero
// means the account is already locked.
func (mm *DatabaseManager) AttemptsLeft(username string) int {
	member := mm.MemberQuery().Username(username).One()

	if member == nil {
		return MaxFailedLogins
	}

	if member.Locked {
		return 0
	}

	return MaxFailedLogins - member.FailedLogins
}

// SessionMember resolves a session ID to its member. Expired sessions are
// deleted on sight.
func (mm *DatabaseManager) SessionMember(id string) (*model.Member, error) {
	s := mm.SessionQuery().Id(id).Full().One()

	if s == nil {
		return nil, ErrNotFound
	}

	if s.Expired() {
		_ = mm.SessionQuery().Id(id).Delete()

		return nil, ErrNotFound
	}

	if s.Member == nil || !s.Member.IsActive() {
		return nil, ErrForbidden
	}

	return s.Member, nil
}

func (mm *DatabaseManager) Logout(id string) error {
	return mm.SessionQuery().Id(id).Delete()
}

// Unlock clears the lock and failure counter. Admin only, enforced here.
func (mm *DatabaseManager) Unlock(actor *model.Member, memberID uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	return mm.MemberQuery().Id(memberID).Update(map[string]any{
		"locked":        false,
		"failed_logins": 0,
	})
}
