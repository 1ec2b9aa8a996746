package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

// AddDefaults seeds the chat channels every deployment starts with.
func (mm *DatabaseManager) AddDefaults() {
	if mm.ChannelQuery().Count() == 0 {
		defaults := []*model.Channel{
			{Name: "general", Description: "Open discussion for all members", Typ: model.ChannelGeneral, CreatedBy: "system", Active: true},
			{Name: "announcements", Description: "Official announcements", Typ: model.ChannelAnnouncement, CreatedBy: "system", Active: true},
		}

		for _, ch := range defaults {
			if err := mm.Save(ch); err != nil {
				mm.logger.Error("error create channel", slog.Any("error", err))
			}
		}
	}
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) MemberQuery() *MemberQuery {
	return NewMemberQuery(mm.db)
}

func (mm *DatabaseManager) SessionQuery() *SessionQuery {
	return NewSessionQuery(mm.db)
}

func (mm *DatabaseManager) MeetingQuery() *MeetingQuery {
	return NewMeetingQuery(mm.db)
}

func (mm *DatabaseManager) InvitationQuery() *InvitationQuery {
	return NewInvitationQuery(mm.db)
}

func (mm *DatabaseManager) AttendeeQuery() *AttendeeQuery {
	return NewAttendeeQuery(mm.db)
}

func (mm *DatabaseManager) PageQuery() *PageQuery {
	return NewPageQuery(mm.db)
}

func (mm *DatabaseManager) ChannelQuery() *ChannelQuery {
	return NewChannelQuery(mm.db)
}

func (mm *DatabaseManager) MessageQuery() *MessageQuery {
	return NewMessageQuery(mm.db)
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	// Migrate the schema
	if err := mm.db.AutoMigrate(
		&model.Member{},
		&model.Session{},
		&model.Meeting{},
		&model.Invitation{},
		&model.Attendee{},
		&model.CustomPage{},
		&model.Channel{},
		&model.ChannelMember{},
		&model.Message{},
	); err != nil {
		return err
	}

	return nil
}

// UpdateMeetingChanged bumps a meeting's timestamp after an audience edit.
func (mm *DatabaseManager) UpdateMeetingChanged(id uint) error {
	return mm.MeetingQuery().Id(id).Update(map[string]any{"updated_at": time.Now()})
}

// CleanupSessions removes sessions that expired before t.
func (mm *DatabaseManager) CleanupSessions(t time.Time) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	return mm.SessionQuery().ExpiredBefore(t).Delete()
}
