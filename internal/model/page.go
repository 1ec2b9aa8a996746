package model

import "time"

const (
	PageAccessAll    = "all"
	PageAccessTier   = "tier_specific"
	PageAccessCustom = "custom"
)

func ValidPageAccess(s string) bool {
	switch s {
	case PageAccessAll, PageAccessTier, PageAccessCustom:
		return true
	}

	return false
}

type CustomPage struct {
	ID             uint      `gorm:"primaryKey"`
	CreatedAt      time.Time `gorm:"type:timestamp"`
	UpdatedAt      time.Time `gorm:"type:timestamp"`
	Title          string    `gorm:"not null;size:255"`
	Slug           string    `gorm:"uniqueIndex;not null;size:255"`
	Content        string    `gorm:"type:text"`
	Access         string    `gorm:"not null;default:'all';size:255"`
	AllowedTiers   []string  `gorm:"serializer:json"`
	AllowedMembers []string  `gorm:"serializer:json"`
	Published      bool      `gorm:"not null;default:false"`
	CreatedBy      string    `gorm:"not null;size:255"`
}

type PageDTO struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	Access         string    `json:"access"`
	AllowedTiers   []string  `json:"allowed_tiers,omitempty"`
	AllowedMembers []string  `json:"allowed_members,omitempty"`
	Published      bool      `json:"published"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PagePostDTO is patch-style on update: nil or empty fields keep their
// stored value, which is why Published is a pointer.
type PagePostDTO struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Content        string   `json:"content"`
	Access         string   `json:"access,omitempty"`
	AllowedTiers   []string `json:"allowed_tiers,omitempty"`
	AllowedMembers []string `json:"allowed_members,omitempty"`
	Published      *bool    `json:"published,omitempty"`
}

// CanView resolves a page's access policy against a viewer. Admins always
// pass, unpublished pages fail for everyone else, and an anonymous viewer
// only passes the published+all case: tier and member checks fail closed
// on a nil viewer.
func (p *CustomPage) CanView(viewer *Member) bool {
	if p == nil {
		return false
	}

	if viewer.IsAdmin() {
		return true
	}

	if !p.Published {
		return false
	}

	switch p.Access {
	case PageAccessAll:
		return true
	case PageAccessTier:
		if viewer == nil {
			return false
		}

		for _, t := range p.AllowedTiers {
			if t == viewer.Tier {
				return true
			}
		}
	case PageAccessCustom:
		if viewer == nil {
			return false
		}

		for _, u := range p.AllowedMembers {
			if u == viewer.Username {
				return true
			}
		}
	}

	return false
}

func (p *CustomPage) DTO() *PageDTO {
	if p == nil {
		return nil
	}

	return &PageDTO{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		Access:         p.Access,
		AllowedTiers:   p.AllowedTiers,
		AllowedMembers: p.AllowedMembers,
		Published:      p.Published,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
