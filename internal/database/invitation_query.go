package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type InvitationQuery struct {
	Query[model.Invitation]
	id        uint
	meetingID uint
	member    string
	full      bool
}

func NewInvitationQuery(db *gorm.DB) *InvitationQuery {
	return &InvitationQuery{
		Query: Query[model.Invitation]{
			db:     db,
			limit:  1000,
			offset: 0,
			order:  "invitations.created_at",
		},
	}
}

func (q *InvitationQuery) Id(id uint) *InvitationQuery {
	q.id = id
	return q
}

func (q *InvitationQuery) Meeting(id uint) *InvitationQuery {
	q.meetingID = id
	return q
}

func (q *InvitationQuery) Member(username string) *InvitationQuery {
	q.member = username
	return q
}

func (q *InvitationQuery) Full() *InvitationQuery {
	q.full = true
	return q
}

func (q *InvitationQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.meetingID != 0 {
		tx = tx.Where("meeting_id = ?", q.meetingID)
	}

	if q.member != "" {
		tx = tx.Where("member = ?", q.member)
	}

	if q.full {
		tx = tx.Joins("Meeting")
	}

	return tx
}

func (q *InvitationQuery) Get() []*model.Invitation {
	return q.get(q.where().Model(&model.Invitation{}))
}

func (q *InvitationQuery) One() *model.Invitation {
	return q.one(q.where().Model(&model.Invitation{}))
}

func (q *InvitationQuery) Count() int64 {
	return q.count(q.where().Model(&model.Invitation{}))
}

func (q *InvitationQuery) Delete() error {
	return q.where().Delete(&model.Invitation{}).Error
}
