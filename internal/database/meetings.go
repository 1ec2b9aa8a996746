package database

import (
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projectarcadia/portal/internal/model"
	"github.com/projectarcadia/portal/pkg/util"
)

// CreateMeeting stores a meeting and materializes its invitations in one
// transaction. Invitation rows are computed once, at creation time: members
// who join later get no retroactive row. Broadcast visibility does not
// depend on the rows, it goes by type and tier.
func (mm *DatabaseManager) CreateMeeting(actor *model.Member, post *model.MeetingPostDTO) (*model.Meeting, error) {
	if !actor.Can(func(p model.Permissions) bool { return p.ManageMeetings }) {
		return nil, ErrForbidden
	}

	if post.Title == "" || post.Date == "" || post.Time == "" {
		return nil, ErrValidation
	}

	if !model.ValidMeetingType(post.Type) {
		return nil, ErrValidation
	}

	m := &model.Meeting{
		Title:       post.Title,
		Description: post.Description,
		Date:        post.Date,
		Time:        post.Time,
		DurationMin: post.DurationMin,
		Typ:         post.Type,
		Location:    post.Location,
		Link:        post.Link,
		Agenda:      post.Agenda,
		CreatedBy:   actor.GetUsername(),
	}

	if m.DurationMin == 0 {
		m.DurationMin = 60
	}

	invitees := mm.computeInvitees(m.Typ, post.Invited)

	err := mm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		for _, username := range invitees {
			inv := &model.Invitation{
				MeetingID: m.ID,
				Member:    username,
				InvitedBy: actor.GetUsername(),
			}

			if err := tx.Create(inv).Error; err != nil {
				return err
			}

			m.Invitations = append(m.Invitations, inv)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return m, nil
}

// computeInvitees resolves a meeting type and an explicit invite list to the
// usernames that get an invitation row. Broadcast types ignore the explicit
// list; targeted types get exactly the explicit set, deduplicated and
// filtered to known members. The creator sees the meeting regardless.
func (mm *DatabaseManager) computeInvitees(typ string, invited []string) []string {
	switch typ {
	case model.MeetingFullMember:
		members := mm.MemberQuery().Status(model.StatusActive).Limit(0).Get()

		res := make([]string, 0, len(members))
		for _, m := range members {
			res = append(res, m.Username)
		}

		return res

	case model.MeetingExecutive:
		members := mm.MemberQuery().TierIn(model.TierCeo, model.TierExecutive).
			Status(model.StatusActive).Limit(0).Get()

		res := make([]string, 0, len(members))
		for _, m := range members {
			res = append(res, m.Username)
		}

		return res

	default:
		set := util.NewStringSet()

		for _, username := range invited {
			if username == "" || set.Has(username) {
				continue
			}

			if mm.MemberQuery().Username(username).Count() > 0 {
				set.Add(username)
			}
		}

		return set.List()
	}
}

// VisibleMeetings returns the meetings a member may see. Full-member
// meetings are always visible, executive meetings go by tier, targeted
// meetings require an invitation row, and creators always see their own.
// Admins see everything.
func (mm *DatabaseManager) VisibleMeetings(member *model.Member) []*model.Meeting {
	if member == nil {
		return nil
	}

	if member.IsAdmin() {
		return mm.MeetingQuery().Full().Limit(0).Get()
	}

	ids := util.NewStringSet()
	res := make([]*model.Meeting, 0)

	add := func(m *model.Meeting) {
		key := strconv.Itoa(int(m.ID))

		if !ids.Has(key) {
			ids.Add(key)
			res = append(res, m)
		}
	}

	for _, m := range mm.MeetingQuery().Type(model.MeetingFullMember).Full().Limit(0).Get() {
		add(m)
	}

	if member.IsExecutive() {
		for _, m := range mm.MeetingQuery().Type(model.MeetingExecutive).Full().Limit(0).Get() {
			add(m)
		}
	}

	for _, inv := range mm.InvitationQuery().Member(member.Username).Get() {
		if ids.Has(strconv.Itoa(int(inv.MeetingID))) {
			continue
		}

		if m := mm.MeetingQuery().Id(inv.MeetingID).Full().One(); m != nil {
			add(m)
		}
	}

	for _, m := range mm.MeetingQuery().CreatedBy(member.Username).Full().Limit(0).Get() {
		add(m)
	}

	return res
}

// GetMeetingFor loads a meeting for a member. Members outside the audience
// get a not-found, never a forbidden: the denial must not confirm the
// meeting exists.
func (mm *DatabaseManager) GetMeetingFor(member *model.Member, id uint) (*model.Meeting, error) {
	m := mm.MeetingQuery().Id(id).Full().One()

	if m == nil {
		return nil, ErrNotFound
	}

	if !mm.canSeeMeeting(member, m) {
		return nil, ErrNotFound
	}

	return m, nil
}

func (mm *DatabaseManager) canSeeMeeting(member *model.Member, m *model.Meeting) bool {
	if member == nil || m == nil {
		return false
	}

	if member.IsAdmin() || m.CreatedBy == member.Username {
		return true
	}

	switch m.Typ {
	case model.MeetingFullMember:
		return true
	case model.MeetingExecutive:
		return member.IsExecutive()
	}

	for _, inv := range m.Invitations {
		if inv.Member == member.Username {
			return true
		}
	}

	return false
}

// UpdateMeeting edits meeting fields. Only the creator, an admin or a
// meeting manager may edit; the type and audience are fixed at creation.
func (mm *DatabaseManager) UpdateMeeting(actor *model.Member, id uint, post *model.MeetingPostDTO) (*model.Meeting, error) {
	m := mm.MeetingQuery().Id(id).One()

	if m == nil {
		return nil, ErrNotFound
	}

	if !mm.canManageMeeting(actor, m) {
		return nil, ErrForbidden
	}

	updates := make(map[string]any)

	if post.Title != "" {
		updates["title"] = post.Title
	}

	if post.Description != "" {
		updates["description"] = post.Description
	}

	if post.Date != "" {
		updates["date"] = post.Date
	}

	if post.Time != "" {
		updates["time"] = post.Time
	}

	if post.DurationMin > 0 {
		updates["duration_min"] = post.DurationMin
	}

	if post.Location != "" {
		updates["location"] = post.Location
	}

	if post.Link != "" {
		updates["link"] = post.Link
	}

	if post.Agenda != nil {
		updates["agenda"] = post.Agenda
	}

	if len(updates) > 0 {
		if err := mm.MeetingQuery().Id(id).Update(updates); err != nil {
			return nil, err
		}
	}

	return mm.MeetingQuery().Id(id).Full().One(), nil
}

func (mm *DatabaseManager) canManageMeeting(actor *model.Member, m *model.Meeting) bool {
	if actor == nil || m == nil {
		return false
	}

	if actor.IsAdmin() || m.CreatedBy == actor.Username {
		return true
	}

	return actor.Can(func(p model.Permissions) bool { return p.ManageMeetings })
}

// DeleteMeeting removes the meeting with its invitations and attendance.
func (mm *DatabaseManager) DeleteMeeting(actor *model.Member, id uint) error {
	m := mm.MeetingQuery().Id(id).One()

	if m == nil {
		return ErrNotFound
	}

	if !mm.canManageMeeting(actor, m) {
		return ErrForbidden
	}

	return mm.MeetingQuery().Delete(id)
}

// Invite adds a member to a targeted meeting's audience. Broadcast meetings
// keep the audience computed at creation.
func (mm *DatabaseManager) Invite(actor *model.Member, id uint, username string) (*model.Invitation, error) {
	m := mm.MeetingQuery().Id(id).One()

	if m == nil {
		return nil, ErrNotFound
	}

	if !mm.canManageMeeting(actor, m) {
		return nil, ErrForbidden
	}

	if m.Typ != model.MeetingOptional && m.Typ != model.MeetingRequired {
		return nil, ErrValidation
	}

	if mm.MemberQuery().Username(username).Count() == 0 {
		return nil, ErrNotFound
	}

	if old := mm.InvitationQuery().Meeting(id).Member(username).One(); old != nil {
		return old, nil
	}

	inv := &model.Invitation{
		MeetingID: id,
		Member:    username,
		InvitedBy: actor.GetUsername(),
	}

	if err := mm.Create(inv); err != nil {
		return nil, err
	}

	_ = mm.UpdateMeetingChanged(id)

	return inv, nil
}

// Uninvite drops a member's invitation and any attendance record with it.
func (mm *DatabaseManager) Uninvite(actor *model.Member, id uint, username string) error {
	m := mm.MeetingQuery().Id(id).One()

	if m == nil {
		return ErrNotFound
	}

	if !mm.canManageMeeting(actor, m) {
		return ErrForbidden
	}

	err := mm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ? AND member = ?", id, username).
			Delete(&model.Invitation{}).Error; err != nil {
			return err
		}

		return tx.Where("meeting_id = ? AND member = ?", id, username).
			Delete(&model.Attendee{}).Error
	})

	if err != nil {
		return err
	}

	return mm.UpdateMeetingChanged(id)
}

// SetAttendance upserts the single attendance record for (meeting, member).
// Members may self-report attending/not_attending/maybe on meetings they
// are invited to; the post-meeting outcomes (attended, absent) and records
// for other members require meeting management rights. Last write wins,
// MarkedBy keeps the provenance.
func (mm *DatabaseManager) SetAttendance(actor *model.Member, id uint, username, status string) (*model.Attendee, error) {
	m := mm.MeetingQuery().Id(id).Full().One()

	if m == nil {
		return nil, ErrNotFound
	}

	if !model.ValidAttendanceStatus(status) {
		return nil, ErrValidation
	}

	self := actor.GetUsername() == username

	if self {
		if !mm.canSeeMeeting(actor, m) {
			return nil, ErrNotFound
		}

		if !model.SelfReportStatus(status) && !mm.canManageMeeting(actor, m) {
			return nil, ErrForbidden
		}
	} else if !mm.canManageMeeting(actor, m) {
		return nil, ErrForbidden
	}

	now := time.Now()

	a := &model.Attendee{
		MeetingID: id,
		Member:    username,
		Status:    status,
		MarkedBy:  actor.GetUsername(),
		MarkedAt:  now,
	}

	if self {
		a.RespondedAt = &now
	}

	err := mm.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "member"}},
		UpdateAll: true,
	}).Create(a).Error

	if err != nil {
		return nil, err
	}

	return a, nil
}
