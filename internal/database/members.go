package database

import (
	"time"

	"github.com/projectarcadia/portal/internal/model"
)

// CreateMember registers a new member. Callers without the manage-users
// capability are refused here, not in the handler. Permissions default from
// the tier unless the record carries an explicit set.
func (mm *DatabaseManager) CreateMember(actor *model.Member, post *model.MemberPostDTO) (*model.Member, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManageUsers }) {
		return nil, ErrForbidden
	}

	if post.Username == "" || post.Password == "" {
		return nil, ErrValidation
	}

	tier := post.Tier
	if tier == "" {
		tier = model.TierStandard
	}

	status := post.Status
	if status == "" {
		status = model.StatusActive
	}

	if !model.ValidTier(tier) || !model.ValidStatus(status) {
		return nil, ErrValidation
	}

	if mm.MemberQuery().Username(post.Username).Count() > 0 {
		return nil, ErrConflict
	}

	perms := model.DefaultPermissions(tier, post.Admin)
	if post.Permissions != nil {
		perms = *post.Permissions
	}

	m := &model.Member{
		Username:    post.Username,
		Name:        post.Name,
		Email:       post.Email,
		Tier:        tier,
		Status:      status,
		Admin:       post.Admin,
		JoinDate:    time.Now(),
		Permissions: perms,
	}

	if err := m.SetPassword(post.Password); err != nil {
		return nil, err
	}

	if err := mm.Create(m); err != nil {
		return nil, err
	}

	return m, nil
}

// UpdateMember applies an admin edit. A tier change without an explicit
// permission set re-derives the defaults for the new tier.
func (mm *DatabaseManager) UpdateMember(actor *model.Member, id uint, post *model.MemberPostDTO) (*model.Member, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManageUsers }) {
		return nil, ErrForbidden
	}

	m := mm.MemberQuery().Id(id).One()

	if m == nil {
		return nil, ErrNotFound
	}

	updates := make(map[string]any)

	if post.Name != "" {
		updates["name"] = post.Name
	}

	if post.Email != "" {
		updates["email"] = post.Email
	}

	if post.Status != "" {
		if !model.ValidStatus(post.Status) {
			return nil, ErrValidation
		}

		updates["status"] = post.Status
	}

	if post.Tier != "" && post.Tier != m.Tier {
		if !model.ValidTier(post.Tier) {
			return nil, ErrValidation
		}

		updates["tier"] = post.Tier

		if post.Permissions == nil {
			updates["permissions"] = model.DefaultPermissions(post.Tier, m.Admin)
		}
	}

	if post.Permissions != nil {
		updates["permissions"] = *post.Permissions
	}

	if post.Password != "" {
		if err := m.SetPassword(post.Password); err != nil {
			return nil, err
		}

		updates["password"] = m.Password
	}

	if len(updates) == 0 {
		return m, nil
	}

	if err := mm.MemberQuery().Id(id).Update(updates); err != nil {
		return nil, err
	}

	return mm.MemberQuery().Id(id).One(), nil
}

// SetAdmin toggles the admin flag. Only admins may grant or revoke it, and
// an admin cannot strip their own flag (somebody must stay in charge).
func (mm *DatabaseManager) SetAdmin(actor *model.Member, id uint, admin bool) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if actor != nil && actor.ID == id && !admin {
		return ErrForbidden
	}

	m := mm.MemberQuery().Id(id).One()

	if m == nil {
		return ErrNotFound
	}

	// the stored record follows the flag, it is not re-derived on read
	return mm.MemberQuery().Id(id).Update(map[string]any{
		"admin":       admin,
		"permissions": model.DefaultPermissions(m.Tier, admin),
	})
}

// PatchPermissions applies a partial permission update to a member's
// stored record. The admin override is computed at read time and is not
// touched here.
func (mm *DatabaseManager) PatchPermissions(actor *model.Member, id uint, patch *model.PermissionsPatch) (*model.Member, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManageUsers }) {
		return nil, ErrForbidden
	}

	m := mm.MemberQuery().Id(id).One()

	if m == nil {
		return nil, ErrNotFound
	}

	perms := patch.Apply(m.Permissions)

	if err := mm.MemberQuery().Id(id).Update(map[string]any{"permissions": perms}); err != nil {
		return nil, err
	}

	m.Permissions = perms

	return m, nil
}

// AcceptConduct records that the member accepted the code of conduct.
func (mm *DatabaseManager) AcceptConduct(member *model.Member) error {
	if member == nil {
		return ErrNotFound
	}

	return mm.MemberQuery().Id(member.ID).Update(map[string]any{"accepted_conduct": true})
}
