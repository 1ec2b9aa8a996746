package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectarcadia/portal/internal/model"
)

func TestCreateChannel(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)

	ch, err := mm.CreateChannel(adm, &model.ChannelPostDTO{
		Name:    "project-x",
		Members: []string{"std", "std", "nobody"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.ChannelGroup, ch.Typ)
	assert.Len(t, ch.Members, 2)

	_, err = mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "project-x"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = mm.CreateChannel(std, &model.ChannelPostDTO{Name: "other"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "x", Type: "bogus"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateChannel(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)

	ch, err := mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "project-x", Members: []string{"std"}})
	require.NoError(t, err)

	_, err = mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "taken"})
	require.NoError(t, err)

	got, err := mm.UpdateChannel(adm, ch.ID, &model.ChannelPostDTO{Name: "project-y", Description: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "project-y", got.Name)
	assert.Equal(t, "renamed", got.Description)
	assert.Len(t, got.Members, 2)

	_, err = mm.UpdateChannel(adm, ch.ID, &model.ChannelPostDTO{Name: "taken"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = mm.UpdateChannel(std, ch.ID, &model.ChannelPostDTO{Name: "sneaky"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.UpdateChannel(adm, 999, &model.ChannelPostDTO{Name: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChannelVisibility(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)
	out := addMember(t, mm, "out", model.TierStandard, false)

	ch, err := mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "grp", Members: []string{"std"}})
	require.NoError(t, err)

	// general + announcements + group
	assert.Len(t, mm.VisibleChannels(std), 3)
	// broadcast channels only
	assert.Len(t, mm.VisibleChannels(out), 2)
	assert.Len(t, mm.VisibleChannels(adm), 3)

	_, err = mm.GetChannelFor(std, ch.ID)
	require.NoError(t, err)

	_, err = mm.GetChannelFor(out, ch.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostMessage(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)

	general := mm.ChannelQuery().Name("general").One()
	ann := mm.ChannelQuery().Name("announcements").One()

	msg, err := mm.PostMessage(std, general.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "std", msg.Sender)

	_, err = mm.PostMessage(std, general.ID, "   ")
	require.ErrorIs(t, err, ErrValidation)

	// announcements are read-only for regular members
	_, err = mm.PostMessage(std, ann.ID, "news")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.PostMessage(adm, ann.ID, "news")
	require.NoError(t, err)

	_, err = mm.PostMessage(std, 999, "hi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostMessageArchivedChannel(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()

	adm := addMember(t, mm, "adm", model.TierCeo, true)

	general := mm.ChannelQuery().Name("general").One()

	require.NoError(t, mm.SetChannelActive(adm, general.ID, false))

	_, err := mm.PostMessage(adm, general.ID, "hi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChannelMessagesOrder(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()

	std := addMember(t, mm, "std", model.TierStandard, false)

	general := mm.ChannelQuery().Name("general").One()

	for i := 0; i < 5; i++ {
		_, err := mm.PostMessage(std, general.ID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	messages, err := mm.ChannelMessages(std, general.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 5)

	for i := 1; i < len(messages); i++ {
		assert.Greater(t, messages[i].ID, messages[i-1].ID)
	}

	tail, err := mm.ChannelMessages(std, general.ID, messages[2].ID, 0)
	require.NoError(t, err)
	assert.Len(t, tail, 2)

	limited, err := mm.ChannelMessages(std, general.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteMessage(t *testing.T) {
	mm := getTestManager(t)

	mm.AddDefaults()

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)
	other := addMember(t, mm, "other", model.TierStandard, false)

	general := mm.ChannelQuery().Name("general").One()

	msg, err := mm.PostMessage(std, general.ID, "oops")
	require.NoError(t, err)

	require.ErrorIs(t, mm.DeleteMessage(other, msg.ID), ErrForbidden)
	require.NoError(t, mm.DeleteMessage(std, msg.ID))
	require.ErrorIs(t, mm.DeleteMessage(std, msg.ID), ErrNotFound)

	msg, err = mm.PostMessage(std, general.ID, "again")
	require.NoError(t, err)

	// moderators delete anyone's messages
	require.NoError(t, mm.DeleteMessage(adm, msg.ID))
}

func TestDeleteChannelCascade(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	addMember(t, mm, "std", model.TierStandard, false)

	ch, err := mm.CreateChannel(adm, &model.ChannelPostDTO{Name: "grp", Members: []string{"std"}})
	require.NoError(t, err)

	_, err = mm.PostMessage(adm, ch.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, mm.DeleteChannel(adm, ch.ID))

	assert.Nil(t, mm.ChannelQuery().Id(ch.ID).One())
	assert.EqualValues(t, 0, mm.MessageQuery().Channel(ch.ID).Count())
}
