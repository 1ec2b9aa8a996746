package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type ChannelQuery struct {
	Query[model.Channel]
	id     uint
	name   string
	typ    string
	active bool
	full   bool
}

func NewChannelQuery(db *gorm.DB) *ChannelQuery {
	return &ChannelQuery{
		Query: Query[model.Channel]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "channels.created_at",
		},
	}
}

func (q *ChannelQuery) Order(s string) *ChannelQuery {
	q.order = s
	return q
}

func (q *ChannelQuery) Id(id uint) *ChannelQuery {
	q.id = id
	return q
}

func (q *ChannelQuery) Name(name string) *ChannelQuery {
	q.name = name
	return q
}

func (q *ChannelQuery) Type(typ string) *ChannelQuery {
	q.typ = typ
	return q
}

func (q *ChannelQuery) Active() *ChannelQuery {
	q.active = true
	return q
}

func (q *ChannelQuery) Full() *ChannelQuery {
	q.full = true
	return q
}

func (q *ChannelQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("channels.id = ?", q.id)
	}

	if q.name != "" {
		tx = tx.Where("channels.name = ?", q.name)
	}

	if q.typ != "" {
		tx = tx.Where("channels.typ = ?", q.typ)
	}

	if q.active {
		tx = tx.Where("channels.active = ?", true)
	}

	if q.full {
		tx = tx.Preload("Members")
	}

	return tx
}

func (q *ChannelQuery) Get() []*model.Channel {
	return q.get(q.where().Model(&model.Channel{}))
}

func (q *ChannelQuery) One() *model.Channel {
	return q.one(q.where().Model(&model.Channel{}))
}

func (q *ChannelQuery) Count() int64 {
	return q.count(q.where().Model(&model.Channel{}))
}

func (q *ChannelQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Channel{}), updates)
}

// Delete removes the channel together with its membership and message rows.
func (q *ChannelQuery) Delete(id uint) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&model.Channel{}).Error; err != nil {
			return err
		}

		if err := tx.Where("channel_id = ?", id).Delete(&model.ChannelMember{}).Error; err != nil {
			return err
		}

		return tx.Where("channel_id = ?", id).Delete(&model.Message{}).Error
	})
}
