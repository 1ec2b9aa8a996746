package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectarcadia/portal/internal/model"
)

func TestAuthenticate(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	s, err := mm.Authenticate("user", "111", false)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	assert.WithinDuration(t, time.Now().Add(model.SessionTTL), s.ExpiresAt, time.Minute)

	m := mm.MemberQuery().Username("user").One()
	require.NotNil(t, m.LastLogin)

	_, err = mm.Authenticate("user", "bad", false)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = mm.Authenticate("nobody", "111", false)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRemember(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	s, err := mm.Authenticate("user", "111", true)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(model.SessionTTLRemember), s.ExpiresAt, time.Minute)
}

func TestLockout(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	for i := 0; i < MaxFailedLogins-1; i++ {
		_, err := mm.Authenticate("user", "bad", false)
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, MaxFailedLogins-i-1, mm.AttemptsLeft("user"))
	}

	_, err := mm.Authenticate("user", "bad", false)
	require.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 0, mm.AttemptsLeft("user"))

	// right password does not help a locked account
	_, err = mm.Authenticate("user", "111", false)
	require.ErrorIs(t, err, ErrLocked)
}

func TestLockoutResetOnSuccess(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	for i := 0; i < MaxFailedLogins-1; i++ {
		_, err := mm.Authenticate("user", "bad", false)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := mm.Authenticate("user", "111", false)
	require.NoError(t, err)

	assert.Equal(t, MaxFailedLogins, mm.AttemptsLeft("user"))
}

func TestUnlock(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "admin", model.TierCeo, true)
	usr := addMember(t, mm, "user", model.TierStandard, false)

	for i := 0; i < MaxFailedLogins; i++ {
		_, _ = mm.Authenticate("user", "bad", false)
	}

	_, err := mm.Authenticate("user", "111", false)
	require.ErrorIs(t, err, ErrLocked)

	require.ErrorIs(t, mm.Unlock(usr, usr.ID), ErrForbidden)
	require.NoError(t, mm.Unlock(adm, usr.ID))

	_, err = mm.Authenticate("user", "111", false)
	require.NoError(t, err)
}

func TestAuthenticateSuspended(t *testing.T) {
	mm := getTestManager(t)

	m := addMember(t, mm, "user", model.TierStandard, false)

	require.NoError(t, mm.MemberQuery().Id(m.ID).Update(map[string]any{"status": model.StatusSuspended}))

	_, err := mm.Authenticate("user", "111", false)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSessionMember(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	s, err := mm.Authenticate("user", "111", false)
	require.NoError(t, err)

	m, err := mm.SessionMember(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", m.Username)

	_, err = mm.SessionMember("no-such-session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mm.Logout(s.ID))

	_, err = mm.SessionMember(s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpired(t *testing.T) {
	mm := getTestManager(t)

	addMember(t, mm, "user", model.TierStandard, false)

	s, err := mm.Authenticate("user", "111", false)
	require.NoError(t, err)

	require.NoError(t, mm.SessionQuery().Id(s.ID).Update(map[string]any{"expires_at": time.Now().Add(-time.Hour)}))

	_, err = mm.SessionMember(s.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// expired session is removed on sight
	assert.Nil(t, mm.SessionQuery().Id(s.ID).One())
}
