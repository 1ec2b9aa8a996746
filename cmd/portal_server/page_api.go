package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectarcadia/portal/internal/model"
)

func getPagesHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pages := srv.app.dbm.VisiblePages(User(c))
		result := make([]*model.PageDTO, len(pages))

		for i, p := range pages {
			result[i] = p.DTO()
		}

		return c.JSON(result)
	}
}

func getPageHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := srv.app.dbm.GetPageFor(User(c), c.Params("slug"))

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(p.DTO())
	}
}

func getPagePostHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data model.PagePostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		p, err := srv.app.dbm.CreatePage(User(c), &data)

		if err != nil {
			return sendError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(p.DTO())
	}
}

func getPagePutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data model.PagePostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		p, err := srv.app.dbm.UpdatePage(User(c), uint(id), &data)

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(p.DTO())
	}
}

func getPageDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.DeletePage(User(c), uint(id)); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}
