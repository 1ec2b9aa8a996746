package model

import "time"

const (
	MeetingOptional   = "optional"
	MeetingRequired   = "required"
	MeetingFullMember = "full_member"
	MeetingExecutive  = "executive"

	AttendancePending      = "pending"
	AttendanceAttending    = "attending"
	AttendanceNotAttending = "not_attending"
	AttendanceMaybe        = "maybe"
	AttendanceAttended     = "attended"
	AttendanceAbsent       = "absent"
)

func ValidMeetingType(s string) bool {
	switch s {
	case MeetingOptional, MeetingRequired, MeetingFullMember, MeetingExecutive:
		return true
	}

	return false
}

// SelfReportStatus reports whether a status is one a member may set on
// themselves. The remaining valid statuses (attended, absent) are outcomes
// recorded by the meeting creator or an admin after the fact.
func SelfReportStatus(s string) bool {
	switch s {
	case AttendanceAttending, AttendanceNotAttending, AttendanceMaybe:
		return true
	}

	return false
}

func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePending, AttendanceAttending, AttendanceNotAttending,
		AttendanceMaybe, AttendanceAttended, AttendanceAbsent:
		return true
	}

	return false
}

type Meeting struct {
	ID          uint      `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"type:timestamp"`
	UpdatedAt   time.Time `gorm:"type:timestamp"`
	Title       string    `gorm:"not null;size:255"`
	Description string    `gorm:"size:1024"`
	Date        string    `gorm:"index;not null;size:255"`
	Time        string    `gorm:"not null;size:255"`
	DurationMin int       `gorm:"not null;default:60"`
	Typ         string    `gorm:"index;not null;size:255"`
	Location    string    `gorm:"size:255"`
	Link        string    `gorm:"size:255"`
	Agenda      []string  `gorm:"serializer:json"`
	CreatedBy   string    `gorm:"not null;size:255"`

	Invitations []*Invitation `gorm:"foreignKey:MeetingID"`
	Attendees   []*Attendee   `gorm:"foreignKey:MeetingID"`
}

// Invitation records that a member may see an optional/required meeting.
// For broadcast types it is materialized at creation time for every member
// in the audience. Existence implies visibility, not attendance.
type Invitation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	MeetingID uint `gorm:"index:idx_inv_meeting_member,unique;not null"`
	Meeting   *Meeting
	Member    string `gorm:"index:idx_inv_meeting_member,unique;not null;size:255"`
	InvitedBy string `gorm:"size:255"`
}

// Attendee is the single attendance record per (meeting, member) pair.
// Writes are upserts; MarkedBy records who last set the status.
type Attendee struct {
	MeetingID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Member      string `gorm:"primaryKey;size:255"`
	Status      string `gorm:"not null;default:'pending';size:255"`
	RespondedAt *time.Time
	MarkedBy    string `gorm:"size:255"`
	MarkedAt    time.Time
}

type MeetingDTO struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	DurationMin int            `json:"duration_min"`
	Type        string         `json:"type"`
	Location    string         `json:"location,omitempty"`
	Link        string         `json:"link,omitempty"`
	Agenda      []string       `json:"agenda,omitempty"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	Invited     []string       `json:"invited_members"`
	Attendees   []*AttendeeDTO `json:"attendees"`
}

type MeetingPostDTO struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	DurationMin int      `json:"duration_min,omitempty"`
	Type        string   `json:"type"`
	Location    string   `json:"location,omitempty"`
	Link        string   `json:"link,omitempty"`
	Agenda      []string `json:"agenda,omitempty"`
	Invited     []string `json:"invited_members,omitempty"`
}

type AttendeeDTO struct {
	Member      string     `json:"member"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	MarkedBy    string     `json:"marked_by,omitempty"`
	MarkedAt    time.Time  `json:"marked_at"`
}

func (m *Meeting) DTO() *MeetingDTO {
	if m == nil {
		return nil
	}

	d := &MeetingDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Date:        m.Date,
		Time:        m.Time,
		DurationMin: m.DurationMin,
		Type:        m.Typ,
		Location:    m.Location,
		Link:        m.Link,
		Agenda:      m.Agenda,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		Invited:     make([]string, 0, len(m.Invitations)),
		Attendees:   make([]*AttendeeDTO, 0, len(m.Attendees)),
	}

	for _, inv := range m.Invitations {
		d.Invited = append(d.Invited, inv.Member)
	}

	for _, a := range m.Attendees {
		d.Attendees = append(d.Attendees, a.DTO())
	}

	return d
}

func (a *Attendee) DTO() *AttendeeDTO {
	if a == nil {
		return nil
	}

	return &AttendeeDTO{
		Member:      a.Member,
		Status:      a.Status,
		RespondedAt: a.RespondedAt,
		MarkedBy:    a.MarkedBy,
		MarkedAt:    a.MarkedAt,
	}
}
