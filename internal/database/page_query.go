package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type PageQuery struct {
	Query[model.CustomPage]
	id        uint
	slug      string
	published bool
}

func NewPageQuery(db *gorm.DB) *PageQuery {
	return &PageQuery{
		Query: Query[model.CustomPage]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "custom_pages.created_at",
		},
	}
}

func (q *PageQuery) Order(s string) *PageQuery {
	q.order = s
	return q
}

func (q *PageQuery) Limit(n int) *PageQuery {
	q.limit = n
	return q
}

func (q *PageQuery) Id(id uint) *PageQuery {
	q.id = id
	return q
}

func (q *PageQuery) Slug(slug string) *PageQuery {
	q.slug = slug
	return q
}

func (q *PageQuery) Published() *PageQuery {
	q.published = true
	return q
}

func (q *PageQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.slug != "" {
		tx = tx.Where("slug = ?", q.slug)
	}

	if q.published {
		tx = tx.Where("published = ?", true)
	}

	return tx
}

func (q *PageQuery) Get() []*model.CustomPage {
	return q.get(q.where().Model(&model.CustomPage{}))
}

func (q *PageQuery) One() *model.CustomPage {
	return q.one(q.where().Model(&model.CustomPage{}))
}

func (q *PageQuery) Count() int64 {
	return q.count(q.where().Model(&model.CustomPage{}))
}

func (q *PageQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.CustomPage{}), updates)
}

func (q *PageQuery) Delete() error {
	return q.where().Delete(&model.CustomPage{}).Error
}
