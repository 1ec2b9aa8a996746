package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type SessionQuery struct {
	Query[model.Session]
	id            string
	memberID      uint
	expiredBefore time.Time
	full          bool
}

func NewSessionQuery(db *gorm.DB) *SessionQuery {
	return &SessionQuery{
		Query: Query[model.Session]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "sessions.created_at",
		},
	}
}

func (q *SessionQuery) Id(id string) *SessionQuery {
	q.id = id
	return q
}

func (q *SessionQuery) Member(id uint) *SessionQuery {
	q.memberID = id
	return q
}

func (q *SessionQuery) ExpiredBefore(t time.Time) *SessionQuery {
	q.expiredBefore = t
	return q
}

func (q *SessionQuery) Full() *SessionQuery {
	q.full = true
	return q
}

func (q *SessionQuery) where() *gorm.DB {
	tx := q.db

	if q.id != "" {
		tx = tx.Where("sessions.id = ?", q.id)
	}

	if q.memberID != 0 {
		tx = tx.Where("sessions.member_id = ?", q.memberID)
	}

	if !q.expiredBefore.IsZero() {
		tx = tx.Where("sessions.expires_at < ?", q.expiredBefore)
	}

	if q.full {
		tx = tx.Joins("Member")
	}

	return tx
}

func (q *SessionQuery) Get() []*model.Session {
	return q.get(q.where().Model(&model.Session{}))
}

func (q *SessionQuery) One() *model.Session {
	return q.one(q.where().Model(&model.Session{}))
}

func (q *SessionQuery) Count() int64 {
	return q.count(q.where().Model(&model.Session{}))
}

func (q *SessionQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Session{}), updates)
}

func (q *SessionQuery) Delete() error {
	return q.where().Delete(&model.Session{}).Error
}
