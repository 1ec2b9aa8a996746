package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type MeetingQuery struct {
	Query[model.Meeting]
	id        uint
	typ       string
	createdBy string
	full      bool
}

func NewMeetingQuery(db *gorm.DB) *MeetingQuery {
	return &MeetingQuery{
		Query: Query[model.Meeting]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "meetings.date, meetings.time",
		},
	}
}

func (q *MeetingQuery) Order(s string) *MeetingQuery {
	q.order = s
	return q
}

func (q *MeetingQuery) Limit(n int) *MeetingQuery {
	q.limit = n
	return q
}

func (q *MeetingQuery) Offset(n int) *MeetingQuery {
	q.offset = n
	return q
}

func (q *MeetingQuery) Id(id uint) *MeetingQuery {
	q.id = id
	return q
}

func (q *MeetingQuery) Type(s string) *MeetingQuery {
	q.typ = s
	return q
}

func (q *MeetingQuery) CreatedBy(username string) *MeetingQuery {
	q.createdBy = username
	return q
}

func (q *MeetingQuery) Full() *MeetingQuery {
	q.full = true
	return q
}

func (q *MeetingQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("meetings.id = ?", q.id)
	}

	if q.typ != "" {
		tx = tx.Where("meetings.typ = ?", q.typ)
	}

	if q.createdBy != "" {
		tx = tx.Where("meetings.created_by = ?", q.createdBy)
	}

	if q.full {
		tx = tx.Preload("Invitations").Preload("Attendees")
	}

	return tx
}

func (q *MeetingQuery) Get() []*model.Meeting {
	return q.get(q.where().Model(&model.Meeting{}))
}

func (q *MeetingQuery) One() *model.Meeting {
	return q.one(q.where().Model(&model.Meeting{}))
}

func (q *MeetingQuery) Count() int64 {
	return q.count(q.where().Model(&model.Meeting{}))
}

func (q *MeetingQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Meeting{}), updates)
}

func (q *MeetingQuery) Delete(id uint) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&model.Meeting{}).Error; err != nil {
			return err
		}

		if err := tx.Where("meeting_id = ?", id).Delete(&model.Invitation{}).Error; err != nil {
			return err
		}

		return tx.Where("meeting_id = ?", id).Delete(&model.Attendee{}).Error
	})
}
