package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectarcadia/portal/internal/model"
)

func getMeetingsHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meetings := srv.app.dbm.VisibleMeetings(User(c))
		result := make([]*model.MeetingDTO, len(meetings))

		for i, m := range meetings {
			result[i] = m.DTO()
		}

		return c.JSON(result)
	}
}

func getMeetingHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.GetMeetingFor(User(c), uint(id))

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(m.DTO())
	}
}

func getMeetingPostHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data model.MeetingPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.CreateMeeting(User(c), &data)

		if err != nil {
			return sendError(c, err)
		}

		meetingsMetric.WithLabelValues(m.Typ).Inc()

		return c.Status(fiber.StatusCreated).JSON(m.DTO())
	}
}

func getMeetingPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data model.MeetingPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.UpdateMeeting(User(c), uint(id), &data)

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(m.DTO())
	}
}

func getMeetingDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.DeleteMeeting(User(c), uint(id)); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getInvitePutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		inv, err := srv.app.dbm.Invite(User(c), uint(id), c.Params("username"))

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(fiber.Map{"meeting_id": inv.MeetingID, "member": inv.Member})
	}
}

func getInviteDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.Uninvite(User(c), uint(id), c.Params("username")); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getAttendancePutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data struct {
			Member string `json:"member"`
			Status string `json:"status"`
		}

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		user := User(c)

		if data.Member == "" {
			data.Member = user.GetUsername()
		}

		a, err := srv.app.dbm.SetAttendance(user, uint(id), data.Member, data.Status)

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(a.DTO())
	}
}
