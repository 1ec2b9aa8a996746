package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectarcadia/portal/internal/model"
)

func pub(b bool) *bool {
	return &b
}

func TestCreatePage(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)

	p, err := mm.CreatePage(adm, &model.PagePostDTO{
		Title:     "About",
		Slug:      "/About/",
		Content:   "<h1>hi</h1>",
		Published: pub(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "about", p.Slug)
	assert.Equal(t, model.PageAccessAll, p.Access)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{Title: "About 2", Slug: "about"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = mm.CreatePage(std, &model.PagePostDTO{Title: "x", Slug: "x"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{Title: "x", Slug: "x", Access: "bogus"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPageContentSanitized(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)

	p, err := mm.CreatePage(adm, &model.PagePostDTO{
		Title:     "News",
		Slug:      "news",
		Content:   `<p>ok</p><script>alert(1)</script><a href="x" onclick="evil()">link</a>`,
		Published: pub(true),
	})

	require.NoError(t, err)
	assert.NotContains(t, p.Content, "<script>")
	assert.NotContains(t, p.Content, "onclick")
	assert.Contains(t, p.Content, "<p>ok</p>")
}

func TestPageAccess(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	exec := addMember(t, mm, "exec", model.TierExecutive, false)
	std := addMember(t, mm, "std", model.TierStandard, false)
	vip := addMember(t, mm, "vip", model.TierHonorary, false)

	_, err := mm.CreatePage(adm, &model.PagePostDTO{
		Title: "Everyone", Slug: "everyone", Published: pub(true),
	})
	require.NoError(t, err)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{
		Title: "Leadership", Slug: "leadership", Published: pub(true),
		Access: model.PageAccessTier, AllowedTiers: []string{model.TierCeo, model.TierExecutive},
	})
	require.NoError(t, err)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{
		Title: "Special", Slug: "special", Published: pub(true),
		Access: model.PageAccessCustom, AllowedMembers: []string{"vip"},
	})
	require.NoError(t, err)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{
		Title: "Draft", Slug: "draft", Published: pub(false),
	})
	require.NoError(t, err)

	_, err = mm.GetPageFor(std, "everyone")
	require.NoError(t, err)

	_, err = mm.GetPageFor(exec, "leadership")
	require.NoError(t, err)

	// page exists but viewer is outside the policy
	_, err = mm.GetPageFor(std, "leadership")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.GetPageFor(vip, "special")
	require.NoError(t, err)

	_, err = mm.GetPageFor(std, "special")
	require.ErrorIs(t, err, ErrForbidden)

	// drafts are admin-only and read as missing for everybody else
	_, err = mm.GetPageFor(std, "draft")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = mm.GetPageFor(adm, "draft")
	require.NoError(t, err)

	_, err = mm.GetPageFor(std, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	// anonymous viewers pass only the published open page
	_, err = mm.GetPageFor(nil, "everyone")
	require.NoError(t, err)

	_, err = mm.GetPageFor(nil, "leadership")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = mm.GetPageFor(nil, "draft")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, mm.VisiblePages(std), 1)
	assert.Len(t, mm.VisiblePages(exec), 2)
	assert.Len(t, mm.VisiblePages(vip), 2)
	assert.Len(t, mm.VisiblePages(adm), 4)
}

func TestUpdatePage(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)

	p1, err := mm.CreatePage(adm, &model.PagePostDTO{Title: "One", Slug: "one", Published: pub(true)})
	require.NoError(t, err)

	_, err = mm.CreatePage(adm, &model.PagePostDTO{Title: "Two", Slug: "two", Published: pub(true)})
	require.NoError(t, err)

	_, err = mm.UpdatePage(adm, p1.ID, &model.PagePostDTO{Slug: "two", Published: pub(true)})
	require.ErrorIs(t, err, ErrConflict)

	// an edit that says nothing about published leaves the page live
	p, err := mm.UpdatePage(adm, p1.ID, &model.PagePostDTO{Title: "One v1.1"})
	require.NoError(t, err)
	assert.Equal(t, "One v1.1", p.Title)
	assert.True(t, p.Published)

	p, err = mm.UpdatePage(adm, p1.ID, &model.PagePostDTO{Title: "One v2", Published: pub(false)})
	require.NoError(t, err)
	assert.Equal(t, "One v2", p.Title)
	assert.False(t, p.Published)

	_, err = mm.UpdatePage(adm, 999, &model.PagePostDTO{Title: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePage(t *testing.T) {
	mm := getTestManager(t)

	adm := addMember(t, mm, "adm", model.TierCeo, true)
	std := addMember(t, mm, "std", model.TierStandard, false)

	p, err := mm.CreatePage(adm, &model.PagePostDTO{Title: "One", Slug: "one", Published: pub(true)})
	require.NoError(t, err)

	require.ErrorIs(t, mm.DeletePage(std, p.ID), ErrForbidden)
	require.NoError(t, mm.DeletePage(adm, p.ID))
	require.ErrorIs(t, mm.DeletePage(adm, p.ID), ErrNotFound)
}
