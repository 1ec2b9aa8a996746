package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPermissions(t *testing.T) {
	p := DefaultPermissions(TierCeo, false)
	assert.True(t, p.ManageMeetings)
	assert.True(t, p.ViewAnalytics)
	assert.True(t, p.AccessFinancials)
	assert.True(t, p.ModerateContent)
	assert.False(t, p.ManageUsers)
	assert.False(t, p.ManageSettings)

	p = DefaultPermissions(TierExecutive, false)
	assert.True(t, p.ManageMeetings)
	assert.True(t, p.ViewAnalytics)
	assert.True(t, p.ModerateContent)
	assert.False(t, p.AccessFinancials)

	p = DefaultPermissions(TierManager, false)
	assert.True(t, p.ManageMeetings)
	assert.True(t, p.ModerateContent)
	assert.False(t, p.ViewAnalytics)

	assert.Equal(t, Permissions{}, DefaultPermissions(TierStandard, false))
	assert.Equal(t, Permissions{}, DefaultPermissions(TierHonorary, false))

	// admin flag beats the tier
	assert.Equal(t, AllPermissions(), DefaultPermissions(TierHonorary, true))
}

func TestEffective(t *testing.T) {
	m := &Member{Tier: TierStandard, Admin: true}
	assert.Equal(t, AllPermissions(), m.Effective())
	assert.True(t, m.Can(func(p Permissions) bool { return p.ManageSettings }))

	m = &Member{Tier: TierStandard, Permissions: Permissions{ManagePages: true}}
	assert.True(t, m.Can(func(p Permissions) bool { return p.ManagePages }))
	assert.False(t, m.Can(func(p Permissions) bool { return p.ManageUsers }))

	var nobody *Member
	assert.False(t, nobody.Can(func(p Permissions) bool { return true }))
}

func TestPermissionsPatch(t *testing.T) {
	yes := true
	no := false

	p := Permissions{ManageMeetings: true, ManagePages: true}
	patch := &PermissionsPatch{ManagePages: &no, ManageChat: &yes}

	res := patch.Apply(p)

	assert.True(t, res.ManageMeetings)
	assert.False(t, res.ManagePages)
	assert.True(t, res.ManageChat)
}
