package model

// Permissions is the per-member capability record. Admins get all of these
// implicitly; for everyone else the stored record wins, falling back to the
// tier defaults at creation and on tier change.
type Permissions struct {
	ManageMeetings   bool `json:"manage_meetings" yaml:"manage_meetings"`
	ManageUsers      bool `json:"manage_users" yaml:"manage_users"`
	ManagePages      bool `json:"manage_pages" yaml:"manage_pages"`
	ManageChat       bool `json:"manage_chat" yaml:"manage_chat"`
	ViewAnalytics    bool `json:"view_analytics" yaml:"view_analytics"`
	ModerateContent  bool `json:"moderate_content" yaml:"moderate_content"`
	AccessFinancials bool `json:"access_financials" yaml:"access_financials"`
	ManageSettings   bool `json:"manage_settings" yaml:"manage_settings"`
}

func AllPermissions() Permissions {
	return Permissions{
		ManageMeetings:   true,
		ManageUsers:      true,
		ManagePages:      true,
		ManageChat:       true,
		ViewAnalytics:    true,
		ModerateContent:  true,
		AccessFinancials: true,
		ManageSettings:   true,
	}
}

// DefaultPermissions returns the capability record derived from a tier.
// Admins get everything. Standard and honorary members get nothing by
// default.
func DefaultPermissions(tier string, admin bool) Permissions {
	if admin {
		return AllPermissions()
	}

	switch tier {
	case TierCeo:
		return Permissions{
			ManageMeetings:   true,
			ViewAnalytics:    true,
			AccessFinancials: true,
			ModerateContent:  true,
		}
	case TierExecutive:
		return Permissions{
			ManageMeetings:  true,
			ViewAnalytics:   true,
			ModerateContent: true,
		}
	case TierManager:
		return Permissions{
			ManageMeetings:  true,
			ModerateContent: true,
		}
	default:
		return Permissions{}
	}
}

// PermissionsPatch is a partial permission update. Nil fields are left
// untouched.
type PermissionsPatch struct {
	ManageMeetings   *bool `json:"manage_meetings,omitempty"`
	ManageUsers      *bool `json:"manage_users,omitempty"`
	ManagePages      *bool `json:"manage_pages,omitempty"`
	ManageChat       *bool `json:"manage_chat,omitempty"`
	ViewAnalytics    *bool `json:"view_analytics,omitempty"`
	ModerateContent  *bool `json:"moderate_content,omitempty"`
	AccessFinancials *bool `json:"access_financials,omitempty"`
	ManageSettings   *bool `json:"manage_settings,omitempty"`
}

func (p *PermissionsPatch) Apply(perms Permissions) Permissions {
	if p == nil {
		return perms
	}

	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	set(&perms.ManageMeetings, p.ManageMeetings)
	set(&perms.ManageUsers, p.ManageUsers)
	set(&perms.ManagePages, p.ManagePages)
	set(&perms.ManageChat, p.ManageChat)
	set(&perms.ViewAnalytics, p.ViewAnalytics)
	set(&perms.ModerateContent, p.ModerateContent)
	set(&perms.AccessFinancials, p.AccessFinancials)
	set(&perms.ManageSettings, p.ManageSettings)

	return perms
}
