package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type MessageQuery struct {
	Query[model.Message]
	id      uint
	channel uint
	sender  string
	after   uint
}

func NewMessageQuery(db *gorm.DB) *MessageQuery {
	return &MessageQuery{
		Query: Query[model.Message]{
			db:     db,
			limit:  200,
			offset: 0,
			order:  "messages.id",
		},
	}
}

func (q *MessageQuery) Order(s string) *MessageQuery {
	q.order = s
	return q
}

func (q *MessageQuery) Limit(n int) *MessageQuery {
	q.limit = n
	return q
}

func (q *MessageQuery) Id(id uint) *MessageQuery {
	q.id = id
	return q
}

func (q *MessageQuery) Channel(id uint) *MessageQuery {
	q.channel = id
	return q
}

func (q *MessageQuery) Sender(username string) *MessageQuery {
	q.sender = username
	return q
}

func (q *MessageQuery) After(id uint) *MessageQuery {
	q.after = id
	return q
}

func (q *MessageQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("messages.id = ?", q.id)
	}

	if q.channel != 0 {
		tx = tx.Where("messages.channel_id = ?", q.channel)
	}

	if q.sender != "" {
		tx = tx.Where("messages.sender = ?", q.sender)
	}

	if q.after != 0 {
		tx = tx.Where("messages.id > ?", q.after)
	}

	return tx
}

func (q *MessageQuery) Get() []*model.Message {
	return q.get(q.where().Model(&model.Message{}))
}

func (q *MessageQuery) One() *model.Message {
	return q.one(q.where().Model(&model.Message{}))
}

func (q *MessageQuery) Count() int64 {
	return q.count(q.where().Model(&model.Message{}))
}

func (q *MessageQuery) Delete() error {
	return q.where().Delete(&model.Message{}).Error
}
