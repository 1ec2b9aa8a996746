package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projectarcadia/portal/internal/model"
)

func getTestManager(t *testing.T) *DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic("failed to connect database")
	}

	mm := New(db)
	require.NoError(t, mm.Migrate())

	return mm
}

func addMember(t *testing.T, mm *DatabaseManager, username, tier string, admin bool) *model.Member {
	t.Helper()

	m := &model.Member{
		Username:    username,
		Tier:        tier,
		Status:      model.StatusActive,
		Admin:       admin,
		JoinDate:    time.Now(),
		Permissions: model.DefaultPermissions(tier, admin),
	}

	require.NoError(t, m.SetPassword("111"))
	require.NoError(t, mm.Save(m))

	return m
}

func TestAddDefaults(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()
	mm.AddDefaults()

	require.EqualValues(t, 2, mm.ChannelQuery().Count())

	assert.Equal(t, model.ChannelGeneral, mm.ChannelQuery().Name("general").One().Typ)
	assert.Equal(t, model.ChannelAnnouncement, mm.ChannelQuery().Name("announcements").One().Typ)
}

func TestCreateMember(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "admin", model.TierCeo, true)
	usr := addMember(t, mm, "user", model.TierStandard, false)

	m, err := mm.CreateMember(adm, &model.MemberPostDTO{
		Username: "new1",
		Password: "pass",
		Tier:     model.TierManager,
	})

	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	assert.True(t, m.Permissions.ManageMeetings)
	assert.False(t, m.Permissions.ManageUsers)
	assert.True(t, m.CheckPassword("pass"))
	assert.False(t, m.CheckPassword("wrong"))

	_, err = mm.CreateMember(adm, &model.MemberPostDTO{Username: "new1", Password: "x"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = mm.CreateMember(usr, &model.MemberPostDTO{Username: "new2", Password: "x"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.CreateMember(adm, &model.MemberPostDTO{Username: "new3", Password: "x", Tier: "bogus"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateMemberTierResetsPermissions(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "admin", model.TierCeo, true)
	usr := addMember(t, mm, "user", model.TierStandard, false)

	m, err := mm.UpdateMember(adm, usr.ID, &model.MemberPostDTO{Tier: model.TierExecutive})
	require.NoError(t, err)

	assert.Equal(t, model.TierExecutive, m.Tier)
	assert.True(t, m.Permissions.ManageMeetings)
	assert.True(t, m.Permissions.ViewAnalytics)
	assert.False(t, m.Permissions.ManageUsers)
}

func TestPatchPermissions(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "admin", model.TierCeo, true)
	usr := addMember(t, mm, "user", model.TierStandard, false)

	yes := true

	m, err := mm.PatchPermissions(adm, usr.ID, &model.PermissionsPatch{ManagePages: &yes})
	require.NoError(t, err)

	assert.True(t, m.Permissions.ManagePages)
	assert.False(t, m.Permissions.ManageMeetings)

	_, err = mm.PatchPermissions(usr, adm.ID, &model.PermissionsPatch{ManagePages: &yes})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSetAdmin(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "admin", model.TierCeo, true)
	usr := addMember(t, mm, "user", model.TierStandard, false)

	require.NoError(t, mm.SetAdmin(adm, usr.ID, true))

	got := mm.MemberQuery().Id(usr.ID).One()
	assert.True(t, got.Admin)
	// the stored record is rewritten along with the flag
	assert.Equal(t, model.AllPermissions(), got.Permissions)

	require.NoError(t, mm.SetAdmin(adm, usr.ID, false))

	got = mm.MemberQuery().Id(usr.ID).One()
	assert.False(t, got.Admin)
	assert.Equal(t, model.DefaultPermissions(model.TierStandard, false), got.Permissions)

	require.ErrorIs(t, mm.SetAdmin(adm, adm.ID, false), ErrForbidden)
	require.ErrorIs(t, mm.SetAdmin(usr, adm.ID, false), ErrForbidden)
}

func TestCleanupSessions(t *testing.T) {
	mm := getTestManager(t)

	m := addMember(t, mm, "user", model.TierStandard, false)

	s1, err := mm.Authenticate("user", "111", false)
	require.NoError(t, err)

	s2, err := mm.Authenticate("user", "111", true)
	require.NoError(t, err)

	require.NoError(t, mm.CleanupSessions(time.Now().Add(model.SessionTTL+time.Hour)))

	assert.Nil(t, mm.SessionQuery().Id(s1.ID).One())
	assert.NotNil(t, mm.SessionQuery().Id(s2.ID).One())
	assert.Equal(t, m.ID, s2.MemberID)
}
