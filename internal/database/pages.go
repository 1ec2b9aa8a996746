package database

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/projectarcadia/portal/internal/model"
)

// pagePolicy strips scripts and event handlers from page content while
// keeping the formatting markup editors actually use.
var pagePolicy = bluemonday.UGCPolicy()

// CreatePage stores a custom page. The content is sanitized on write, so
// whatever reaches the database is safe to serve as-is.
func (mm *DatabaseManager) CreatePage(actor *model.Member, post *model.PagePostDTO) (*model.CustomPage, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManagePages }) {
		return nil, ErrForbidden
	}

	slug := normalizeSlug(post.Slug)

	if post.Title == "" || slug == "" {
		return nil, ErrValidation
	}

	access := post.Access
	if access == "" {
		access = model.PageAccessAll
	}

	if !model.ValidPageAccess(access) {
		return nil, ErrValidation
	}

	if mm.PageQuery().Slug(slug).Count() > 0 {
		return nil, ErrConflict
	}

	p := &model.CustomPage{
		Title:          post.Title,
		Slug:           slug,
		Content:        pagePolicy.Sanitize(post.Content),
		Access:         access,
		AllowedTiers:   post.AllowedTiers,
		AllowedMembers: post.AllowedMembers,
		Published:      post.Published != nil && *post.Published,
		CreatedBy:      actor.GetUsername(),
	}

	if err := mm.Create(p); err != nil {
		return nil, err
	}

	return p, nil
}

func (mm *DatabaseManager) UpdatePage(actor *model.Member, id uint, post *model.PagePostDTO) (*model.CustomPage, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManagePages }) {
		return nil, ErrForbidden
	}

	p := mm.PageQuery().Id(id).One()

	if p == nil {
		return nil, ErrNotFound
	}

	updates := make(map[string]any)

	if post.Title != "" {
		updates["title"] = post.Title
	}

	if slug := normalizeSlug(post.Slug); slug != "" && slug != p.Slug {
		if mm.PageQuery().Slug(slug).Count() > 0 {
			return nil, ErrConflict
		}

		updates["slug"] = slug
	}

	if post.Content != "" {
		updates["content"] = pagePolicy.Sanitize(post.Content)
	}

	if post.Access != "" {
		if !model.ValidPageAccess(post.Access) {
			return nil, ErrValidation
		}

		updates["access"] = post.Access
	}

	if post.AllowedTiers != nil {
		updates["allowed_tiers"] = post.AllowedTiers
	}

	if post.AllowedMembers != nil {
		updates["allowed_members"] = post.AllowedMembers
	}

	if post.Published != nil {
		updates["published"] = *post.Published
	}

	if len(updates) == 0 {
		return p, nil
	}

	if err := mm.PageQuery().Id(id).Update(updates); err != nil {
		return nil, err
	}

	return mm.PageQuery().Id(id).One(), nil
}

func (mm *DatabaseManager) DeletePage(actor *model.Member, id uint) error {
	if !actor.Can(func(p model.Permissions) bool { return p.ManagePages }) {
		return ErrForbidden
	}

	if mm.PageQuery().Id(id).Count() == 0 {
		return ErrNotFound
	}

	return mm.PageQuery().Id(id).Delete()
}

// GetPageFor loads a page by slug for a viewer, who may be nil. A published
// page outside the viewer's access policy answers forbidden; a missing slug
// and an unpublished page both answer not-found, so drafts do not leak.
func (mm *DatabaseManager) GetPageFor(member *model.Member, slug string) (*model.CustomPage, error) {
	p := mm.PageQuery().Slug(normalizeSlug(slug)).One()

	if p == nil {
		return nil, ErrNotFound
	}

	if !p.CanView(member) {
		if !p.Published {
			return nil, ErrNotFound
		}

		return nil, ErrForbidden
	}

	return p, nil
}

// VisiblePages lists the pages a member may open. Page managers see the
// whole set, drafts included.
func (mm *DatabaseManager) VisiblePages(member *model.Member) []*model.CustomPage {
	if member.Can(func(p model.Permissions) bool { return p.ManagePages }) {
		return mm.PageQuery().Limit(0).Get()
	}

	res := make([]*model.CustomPage, 0)

	for _, p := range mm.PageQuery().Published().Limit(0).Get() {
		if p.CanView(member) {
			res = append(res, p)
		}
	}

	return res
}

func normalizeSlug(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), "/")
}
