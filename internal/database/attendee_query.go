package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type AttendeeQuery struct {
	Query[model.Attendee]
	meetingID uint
	member    string
	status    string
}

func NewAttendeeQuery(db *gorm.DB) *AttendeeQuery {
	return &AttendeeQuery{
		Query: Query[model.Attendee]{
			db:     db,
			limit:  1000,
			offset: 0,
			order:  "attendees.member",
		},
	}
}

func (q *AttendeeQuery) Meeting(id uint) *AttendeeQuery {
	q.meetingID = id
	return q
}

func (q *AttendeeQuery) Member(username string) *AttendeeQuery {
	q.member = username
	return q
}

func (q *AttendeeQuery) Status(status string) *AttendeeQuery {
	q.status = status
	return q
}

func (q *AttendeeQuery) where() *gorm.DB {
	tx := q.db

	if q.meetingID != 0 {
		tx = tx.Where("meeting_id = ?", q.meetingID)
	}

	if q.member != "" {
		tx = tx.Where("member = ?", q.member)
	}

	if q.status != "" {
		tx = tx.Where("status = ?", q.status)
	}

	return tx
}

func (q *AttendeeQuery) Get() []*model.Attendee {
	return q.get(q.where().Model(&model.Attendee{}))
}

func (q *AttendeeQuery) One() *model.Attendee {
	return q.one(q.where().Model(&model.Attendee{}))
}

func (q *AttendeeQuery) Count() int64 {
	return q.count(q.where().Model(&model.Attendee{}))
}

func (q *AttendeeQuery) Delete() error {
	return q.where().Delete(&model.Attendee{}).Error
}
