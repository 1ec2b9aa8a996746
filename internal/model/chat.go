package model

import "time"

const (
	ChannelGeneral      = "general"
	ChannelAnnouncement = "announcement"
	ChannelGroup        = "group"
)

func ValidChannelType(s string) bool {
	switch s {
	case ChannelGeneral, ChannelAnnouncement, ChannelGroup:
		return true
	}

	return false
}

type Channel struct {
	ID          uint      `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"type:timestamp"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"size:1024"`
	Typ         string    `gorm:"not null;default:'group';size:255"`
	CreatedBy   string    `gorm:"not null;size:255"`
	Active      bool      `gorm:"not null;default:true"`

	Members []*ChannelMember `gorm:"foreignKey:ChannelID"`
}

type ChannelMember struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	ChannelID uint   `gorm:"index:idx_chan_member,unique;not null"`
	Member    string `gorm:"index:idx_chan_member,unique;not null;size:255"`
}

// Message ordering within a channel follows the autoincrement ID assigned
// on insert, matching the backing-store insertion order the clients expect.
type Message struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	ChannelID uint   `gorm:"index;not null"`
	Sender    string `gorm:"not null;size:255"`
	Text      string `gorm:"type:text;not null"`
}

// Broadcast reports whether the channel is open to every member. Group
// channels are visible to their member list only.
func (c *Channel) Broadcast() bool {
	if c == nil {
		return false
	}

	return c.Typ == ChannelGeneral || c.Typ == ChannelAnnouncement
}

type ChannelDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	CreatedBy   string    `json:"created_by"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	Members     []string  `json:"members,omitempty"`
}

type ChannelPostDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Members     []string `json:"members,omitempty"`
}

type MessageDTO struct {
	ID        uint      `json:"id"`
	ChannelID uint      `json:"channel_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

func (c *Channel) DTO() *ChannelDTO {
	if c == nil {
		return nil
	}

	d := &ChannelDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Typ,
		CreatedBy:   c.CreatedBy,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}

	for _, m := range c.Members {
		d.Members = append(d.Members, m.Member)
	}

	return d
}

func (m *Message) DTO() *MessageDTO {
	if m == nil {
		return nil
	}

	return &MessageDTO{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Sender:    m.Sender,
		Text:      m.Text,
		SentAt:    m.CreatedAt,
	}
}
