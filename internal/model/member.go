package model

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

const (
	TierHonorary  = "honorary"
	TierStandard  = "standard"
	TierManager   = "manager"
	TierExecutive = "executive"
	TierCeo       = "ceo"

	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// Tiers is the ordered set of membership ranks, lowest first.
var Tiers = []string{TierHonorary, TierStandard, TierManager, TierExecutive, TierCeo}

func ValidTier(s string) bool {
	for _, t := range Tiers {
		if t == s {
			return true
		}
	}

	return false
}

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusSuspended || s == StatusInactive
}

type Member struct {
	ID              uint      `gorm:"primaryKey" yaml:"-"`
	Username        string    `gorm:"uniqueIndex;not null;size:255" yaml:"username"`
	Password        string    `gorm:"not null" yaml:"password"`
	Name            string    `gorm:"not null;default:''" yaml:"name,omitempty"`
	Email           string    `gorm:"not null;default:''" yaml:"email,omitempty"`
	Tier            string    `gorm:"index;not null;default:'standard'" yaml:"tier,omitempty"`
	Status          string    `gorm:"not null;default:'active'" yaml:"status,omitempty"`
	Admin           bool      `gorm:"not null;default:false" yaml:"admin,omitempty"`
	JoinDate        time.Time `yaml:"join_date,omitempty"`
	LastLogin       *time.Time
	AcceptedConduct bool        `gorm:"not null;default:false" yaml:"-"`
	FailedLogins    int         `gorm:"not null;default:0" yaml:"-"`
	Locked          bool        `gorm:"not null;default:false" yaml:"-"`
	Permissions     Permissions `gorm:"serializer:json" yaml:"permissions,omitempty"`
}

type MemberDTO struct {
	ID              uint        `json:"id"`
	Username        string      `json:"username"`
	Name            string      `json:"name,omitempty"`
	Email           string      `json:"email,omitempty"`
	Tier            string      `json:"tier"`
	Status          string      `json:"status"`
	Admin           bool        `json:"admin"`
	JoinDate        time.Time   `json:"join_date"`
	LastLogin       *time.Time  `json:"last_login,omitempty"`
	AcceptedConduct bool        `json:"accepted_conduct"`
	Locked          bool        `json:"locked"`
	Permissions     Permissions `json:"permissions"`
}

type MemberPostDTO struct {
	Username    string       `json:"username"`
	Password    string       `json:"password"`
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email,omitempty"`
	Tier        string       `json:"tier,omitempty"`
	Status      string       `json:"status,omitempty"`
	Admin       bool         `json:"admin,omitempty"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

func (m *Member) GetUsername() string {
	if m == nil {
		return ""
	}

	return m.Username
}

func (m *Member) GetTier() string {
	if m == nil {
		return ""
	}

	return m.Tier
}

func (m *Member) IsAdmin() bool {
	return m != nil && m.Admin
}

func (m *Member) IsActive() bool {
	return m != nil && m.Status == StatusActive
}

// IsExecutive reports whether the member sits in the executive circle
// (ceo or executive tier), the audience of executive meetings.
func (m *Member) IsExecutive() bool {
	if m == nil {
		return false
	}

	return m.Tier == TierCeo || m.Tier == TierExecutive
}

func (m *Member) CheckPassword(password string) bool {
	if m == nil {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password))
	if err != nil {
		slog.Debug("password check failed", slog.Any("error", err))
		return false
	}

	return true
}

func (m *Member) SetPassword(password string) error {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	m.Password = string(b)
	return nil
}

// Effective returns the member's effective permission set. The admin flag
// grants every capability regardless of the stored record.
func (m *Member) Effective() Permissions {
	if m == nil {
		return Permissions{}
	}

	if m.Admin {
		return AllPermissions()
	}

	return m.Permissions
}

func (m *Member) Can(check func(p Permissions) bool) bool {
	if m == nil {
		return false
	}

	return check(m.Effective())
}

func (m *Member) DTO() *MemberDTO {
	if m == nil {
		return nil
	}

	return &MemberDTO{
		ID:              m.ID,
		Username:        m.Username,
		Name:            m.Name,
		Email:           m.Email,
		Tier:            m.Tier,
		Status:          m.Status,
		Admin:           m.Admin,
		JoinDate:        m.JoinDate,
		LastLogin:       m.LastLogin,
		AcceptedConduct: m.AcceptedConduct,
		Locked:          m.Locked,
		Permissions:     m.Effective(),
	}
}
