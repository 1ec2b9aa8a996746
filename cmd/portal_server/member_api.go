package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectarcadia/portal/internal/model"
)

func getMembersHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := User(c)

		if !user.Can(func(p model.Permissions) bool { return p.ManageUsers }) &&
			!user.Can(func(p model.Permissions) bool { return p.ViewAnalytics }) {
			return c.SendStatus(fiber.StatusForbidden)
		}

		q := srv.app.dbm.MemberQuery().Limit(0)

		if tier := c.Query("tier"); tier != "" {
			q = q.Tier(tier)
		}

		if status := c.Query("status"); status != "" {
			q = q.Status(status)
		}

		members := q.Get()
		result := make([]*model.MemberDTO, len(members))

		for i, m := range members {
			result[i] = m.DTO()
		}

		return c.JSON(result)
	}
}

func getMemberPostHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data model.MemberPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.CreateMember(User(c), &data)

		if err != nil {
			return sendError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(m.DTO())
	}
}

func getMemberPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data model.MemberPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.UpdateMember(User(c), uint(id), &data)

		if err != nil {
			return sendError(c, err)
		}

		srv.app.members.Invalidate(m.GetUsername())

		return c.JSON(m.DTO())
	}
}

func getPermissionsPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var patch model.PermissionsPatch

		if err := c.BodyParser(&patch); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		m, err := srv.app.dbm.PatchPermissions(User(c), uint(id), &patch)

		if err != nil {
			return sendError(c, err)
		}

		srv.app.members.Invalidate(m.GetUsername())

		return c.JSON(m.DTO())
	}
}

func getAdminPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data struct {
			Admin bool `json:"admin"`
		}

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.SetAdmin(User(c), uint(id), data.Admin); err != nil {
			return sendError(c, err)
		}

		if m := srv.app.dbm.MemberQuery().Id(uint(id)).One(); m != nil {
			srv.app.members.Invalidate(m.GetUsername())
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getUnlockHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.Unlock(User(c), uint(id)); err != nil {
			return sendError(c, err)
		}

		if m := srv.app.dbm.MemberQuery().Id(uint(id)).One(); m != nil {
			srv.app.members.Invalidate(m.GetUsername())
		}

		return c.SendStatus(fiber.StatusOK)
	}
}
