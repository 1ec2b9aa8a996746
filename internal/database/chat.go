package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/projectarcadia/portal/internal/model"
	"github.com/projectarcadia/portal/pkg/util"
)

// CreateChannel opens a chat channel. Group channels get their member list
// deduplicated and filtered to known usernames, creator included.
func (mm *DatabaseManager) CreateChannel(actor *model.Member, post *model.ChannelPostDTO) (*model.Channel, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManageChat }) {
		return nil, ErrForbidden
	}

	if post.Name == "" {
		return nil, ErrValidation
	}

	typ := post.Type
	if typ == "" {
		typ = model.ChannelGroup
	}

	if !model.ValidChannelType(typ) {
		return nil, ErrValidation
	}

	if mm.ChannelQuery().Name(post.Name).Count() > 0 {
		return nil, ErrConflict
	}

	ch := &model.Channel{
		Name:        post.Name,
		Description: post.Description,
		Typ:         typ,
		CreatedBy:   actor.GetUsername(),
		Active:      true,
	}

	err := mm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ch).Error; err != nil {
			return err
		}

		if ch.Typ != model.ChannelGroup {
			return nil
		}

		set := util.NewStringSet()
		set.Add(actor.GetUsername())

		for _, username := range post.Members {
			if username == "" || set.Has(username) {
				continue
			}

			if mm.MemberQuery().Username(username).Count() > 0 {
				set.Add(username)
			}
		}

		for _, username := range set.List() {
			cm := &model.ChannelMember{ChannelID: ch.ID, Member: username}

			if err := tx.Create(cm).Error; err != nil {
				return err
			}

			ch.Members = append(ch.Members, cm)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ch, nil
}

// VisibleChannels lists the active channels a member may read: the
// broadcast channels plus the groups it belongs to. Chat managers see
// everything, inactive channels included.
func (mm *DatabaseManager) VisibleChannels(member *model.Member) []*model.Channel {
	if member.Can(func(p model.Permissions) bool { return p.ManageChat }) {
		return mm.ChannelQuery().Full().Get()
	}

	res := make([]*model.Channel, 0)

	for _, ch := range mm.ChannelQuery().Active().Full().Get() {
		if mm.canSeeChannel(member, ch) {
			res = append(res, ch)
		}
	}

	return res
}

func (mm *DatabaseManager) canSeeChannel(member *model.Member, ch *model.Channel) bool {
	if member == nil || ch == nil {
		return false
	}

	if member.IsAdmin() || member.Can(func(p model.Permissions) bool { return p.ManageChat }) {
		return true
	}

	if ch.Broadcast() {
		return true
	}

	for _, cm := range ch.Members {
		if cm.Member == member.Username {
			return true
		}
	}

	return false
}

// GetChannelFor loads a channel for a member, group membership enforced.
func (mm *DatabaseManager) GetChannelFor(member *model.Member, id uint) (*model.Channel, error) {
	ch := mm.ChannelQuery().Id(id).Full().One()

	if ch == nil {
		return nil, ErrNotFound
	}

	if !mm.canSeeChannel(member, ch) {
		return nil, ErrNotFound
	}

	return ch, nil
}

func (mm *DatabaseManager) AddChannelMember(actor *model.Member, id uint, username string) error {
	ch := mm.ChannelQuery().Id(id).One()

	if ch == nil {
		return ErrNotFound
	}

	if !mm.canManageChannel(actor, ch) {
		return ErrForbidden
	}

	if ch.Typ != model.ChannelGroup {
		return ErrValidation
	}

	if mm.MemberQuery().Username(username).Count() == 0 {
		return ErrNotFound
	}

	var old *model.ChannelMember

	if err := mm.db.Where("channel_id = ? AND member = ?", id, username).
		Find(&old).Error; err != nil {
		return err
	}

	old.ChannelID = id
	old.Member = username

	return mm.db.Save(old).Error
}

func (mm *DatabaseManager) RemoveChannelMember(actor *model.Member, id uint, username string) error {
	ch := mm.ChannelQuery().Id(id).One()

	if ch == nil {
		return ErrNotFound
	}

	if !mm.canManageChannel(actor, ch) {
		return ErrForbidden
	}

	mm.db.Where("channel_id = ? AND member = ?", id, username).Delete(&model.ChannelMember{})

	return nil
}

func (mm *DatabaseManager) canManageChannel(actor *model.Member, ch *model.Channel) bool {
	if actor == nil || ch == nil {
		return false
	}

	if actor.IsAdmin() || ch.CreatedBy == actor.Username {
		return true
	}

	return actor.Can(func(p model.Permissions) bool { return p.ManageChat })
}

// UpdateChannel edits a channel's name or description. The type is fixed
// at creation.
func (mm *DatabaseManager) UpdateChannel(actor *model.Member, id uint, post *model.ChannelPostDTO) (*model.Channel, error) {
	ch := mm.ChannelQuery().Id(id).One()

	if ch == nil {
		return nil, ErrNotFound
	}

	if !mm.canManageChannel(actor, ch) {
		return nil, ErrForbidden
	}

	updates := make(map[string]any)

	if post.Name != "" && post.Name != ch.Name {
		if mm.ChannelQuery().Name(post.Name).Count() > 0 {
			return nil, ErrConflict
		}

		updates["name"] = post.Name
	}

	if post.Description != "" {
		updates["description"] = post.Description
	}

	if len(updates) > 0 {
		if err := mm.ChannelQuery().Id(id).Update(updates); err != nil {
			return nil, err
		}
	}

	return mm.ChannelQuery().Id(id).Full().One(), nil
}

// SetChannelActive archives or restores a channel. History stays.
func (mm *DatabaseManager) SetChannelActive(actor *model.Member, id uint, active bool) error {
	ch := mm.ChannelQuery().Id(id).One()

	if ch == nil {
		return ErrNotFound
	}

	if !mm.canManageChannel(actor, ch) {
		return ErrForbidden
	}

	return mm.ChannelQuery().Id(id).Update(map[string]any{"active": active})
}

func (mm *DatabaseManager) DeleteChannel(actor *model.Member, id uint) error {
	ch := mm.ChannelQuery().Id(id).One()

	if ch == nil {
		return ErrNotFound
	}

	if !mm.canManageChannel(actor, ch) {
		return ErrForbidden
	}

	return mm.ChannelQuery().Delete(id)
}

// PostMessage appends a message to a channel. Announcement channels accept
// posts from admins and content moderators only; everyone else in the
// audience reads.
func (mm *DatabaseManager) PostMessage(actor *model.Member, channelID uint, text string) (*model.Message, error) {
	ch := mm.ChannelQuery().Id(channelID).Full().One()

	if ch == nil || !ch.Active {
		return nil, ErrNotFound
	}

	if !mm.canSeeChannel(actor, ch) {
		return nil, ErrNotFound
	}

	text = strings.TrimSpace(text)

	if text == "" {
		return nil, ErrValidation
	}

	if ch.Typ == model.ChannelAnnouncement && !actor.IsAdmin() &&
		!actor.Can(func(p model.Permissions) bool { return p.ModerateContent }) {
		return nil, ErrForbidden
	}

	msg := &model.Message{
		ChannelID: channelID,
		Sender:    actor.GetUsername(),
		Text:      text,
	}

	if err := mm.Create(msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// ChannelMessages returns channel history in insertion order, optionally
// only messages after a known ID.
func (mm *DatabaseManager) ChannelMessages(member *model.Member, channelID uint, after uint, limit int) ([]*model.Message, error) {
	if _, err := mm.GetChannelFor(member, channelID); err != nil {
		return nil, err
	}

	q := mm.MessageQuery().Channel(channelID)

	if after > 0 {
		q = q.After(after)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	return q.Get(), nil
}

// DeleteMessage removes a message. The sender may delete their own,
// moderators and admins anyone's.
func (mm *DatabaseManager) DeleteMessage(actor *model.Member, id uint) error {
	msg := mm.MessageQuery().Id(id).One()

	if msg == nil {
		return ErrNotFound
	}

	if msg.Sender != actor.GetUsername() && !actor.IsAdmin() &&
		!actor.Can(func(p model.Permissions) bool { return p.ModerateContent }) {
		return ErrForbidden
	}

	return mm.MessageQuery().Id(id).Delete()
}
