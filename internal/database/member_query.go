package database

import (
	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
)

type MemberQuery struct {
	Query[model.Member]
	id       uint
	username string
	tier     string
	tierIn   []string
	status   string
}

func NewMemberQuery(db *gorm.DB) *MemberQuery {
	return &MemberQuery{
		Query: Query[model.Member]{
			db:     db,
			limit:  500,
			offset: 0,
			order:  "members.join_date",
		},
	}
}

func (q *MemberQuery) Order(s string) *MemberQuery {
	q.order = s
	return q
}

func (q *MemberQuery) Limit(n int) *MemberQuery {
	q.limit = n
	return q
}

func (q *MemberQuery) Offset(n int) *MemberQuery {
	q.offset = n
	return q
}

func (q *MemberQuery) Id(id uint) *MemberQuery {
	q.id = id
	return q
}

func (q *MemberQuery) Username(username string) *MemberQuery {
	q.username = username
	return q
}

func (q *MemberQuery) Tier(tier string) *MemberQuery {
	q.tier = tier
	return q
}

func (q *MemberQuery) TierIn(tiers ...string) *MemberQuery {
	q.tierIn = tiers
	return q
}

func (q *MemberQuery) Status(status string) *MemberQuery {
	q.status = status
	return q
}

func (q *MemberQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.username != "" {
		tx = tx.Where("username = ?", q.username)
	}

	if q.tier != "" {
		tx = tx.Where("tier = ?", q.tier)
	}

	if len(q.tierIn) > 0 {
		tx = tx.Where("tier IN ?", q.tierIn)
	}

	if q.status != "" {
		tx = tx.Where("status = ?", q.status)
	}

	return tx
}

func (q *MemberQuery) Get() []*model.Member {
	return q.get(q.where().Model(&model.Member{}))
}

func (q *MemberQuery) One() *model.Member {
	return q.one(q.where().Model(&model.Member{}))
}

func (q *MemberQuery) Count() int64 {
	return q.count(q.where().Model(&model.Member{}))
}

func (q *MemberQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Member{}), updates)
}
