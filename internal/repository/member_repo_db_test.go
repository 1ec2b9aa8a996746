package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projectarcadia/portal/internal/database"
	"github.com/projectarcadia/portal/internal/model"
)

func getTestManager(t *testing.T) *database.DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mm := database.New(db)
	require.NoError(t, mm.Migrate())

	return mm
}

func writeMembersFile(t *testing.T, data string) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "members.yml")
	require.NoError(t, os.WriteFile(name, []byte(data), 0o644))

	return name
}

func TestImportMembersFile(t *testing.T) {
	mm := getTestManager(t)

	name := writeMembersFile(t, `
- username: boss
  password: secret
  tier: ceo
  admin: true
- username: worker
  password: pass1
- username: ""
  password: ignored
`)

	r := NewDbMemberRepo(name, mm, time.Minute)
	require.NoError(t, r.Start())

	defer r.Stop()

	boss := r.Get("boss")
	require.NotNil(t, boss)
	assert.Equal(t, model.TierCeo, boss.Tier)
	assert.True(t, boss.Admin)
	assert.True(t, boss.CheckPassword("secret"))
	assert.True(t, boss.Permissions.ManageSettings)

	worker := r.Get("worker")
	require.NotNil(t, worker)
	assert.Equal(t, model.TierStandard, worker.Tier)
	assert.Equal(t, model.StatusActive, worker.Status)
	assert.True(t, worker.CheckPassword("pass1"))
	assert.Equal(t, model.Permissions{}, worker.Permissions)

	assert.Nil(t, r.Get(""))
	assert.EqualValues(t, 2, mm.MemberQuery().Count())
}

func TestImportKeepsExisting(t *testing.T) {
	mm := getTestManager(t)

	name := writeMembersFile(t, "- username: boss\n  password: secret\n  tier: ceo\n")

	r := NewDbMemberRepo(name, mm, time.Minute)
	require.NoError(t, r.Start())

	defer r.Stop()

	require.NoError(t, mm.MemberQuery().Username("boss").Update(map[string]any{"tier": model.TierManager}))

	// re-import does not clobber the edited row
	require.NoError(t, r.importMembersFile())

	r.Invalidate("boss")
	assert.Equal(t, model.TierManager, r.Get("boss").Tier)
	assert.EqualValues(t, 1, mm.MemberQuery().Count())
}

func TestMissingMembersFile(t *testing.T) {
	mm := getTestManager(t)

	r := NewDbMemberRepo(filepath.Join(t.TempDir(), "absent.yml"), mm, time.Minute)
	require.NoError(t, r.Start())

	r.Stop()

	assert.Nil(t, r.Get("anyone"))
}
