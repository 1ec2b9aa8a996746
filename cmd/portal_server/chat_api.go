package main

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/projectarcadia/portal/internal/model"
	"github.com/projectarcadia/portal/internal/wshandler"
)

func getChannelsHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		channels := srv.app.dbm.VisibleChannels(User(c))
		result := make([]*model.ChannelDTO, len(channels))

		for i, ch := range channels {
			result[i] = ch.DTO()
		}

		return c.JSON(result)
	}
}

func getChannelHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		ch, err := srv.app.dbm.GetChannelFor(User(c), uint(id))

		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(ch.DTO())
	}
}

func getChannelPostHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data model.ChannelPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		ch, err := srv.app.dbm.CreateChannel(User(c), &data)

		if err != nil {
			return sendError(c, err)
		}

		srv.app.channelCb.AddMessage(ch.DTO())

		return c.Status(fiber.StatusCreated).JSON(ch.DTO())
	}
}

func getChannelPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data model.ChannelPostDTO

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		ch, err := srv.app.dbm.UpdateChannel(User(c), uint(id), &data)

		if err != nil {
			return sendError(c, err)
		}

		srv.app.channelCb.AddMessage(ch.DTO())

		return c.JSON(ch.DTO())
	}
}

func getChannelActiveHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data struct {
			Active bool `json:"active"`
		}

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.SetChannelActive(User(c), uint(id), data.Active); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getChannelDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.DeleteChannel(User(c), uint(id)); err != nil {
			return sendError(c, err)
		}

		srv.app.handlers.All(func(h *wshandler.JSONWsHandler) bool {
			h.ChannelDeleted(uint(id))

			return true
		})

		return c.SendStatus(fiber.StatusOK)
	}
}

func getChannelMemberPutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.AddChannelMember(User(c), uint(id), c.Params("username")); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getChannelMemberDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.RemoveChannelMember(User(c), uint(id), c.Params("username")); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getMessagesHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		messages, err := srv.app.dbm.ChannelMessages(User(c), uint(id),
			uint(c.QueryInt("after")), c.QueryInt("limit"))

		if err != nil {
			return sendError(c, err)
		}

		result := make([]*model.MessageDTO, len(messages))

		for i, m := range messages {
			result[i] = m.DTO()
		}

		return c.JSON(result)
	}
}

func getMessagePostHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var data struct {
			Text string `json:"text"`
		}

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		msg, err := srv.app.dbm.PostMessage(User(c), uint(id), data.Text)

		if err != nil {
			return sendError(c, err)
		}

		messagesMetric.Inc()
		srv.app.messageCb.AddMessage(msg.DTO())

		return c.Status(fiber.StatusCreated).JSON(msg.DTO())
	}
}

func getMessageDeleteHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")

		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if err := srv.app.dbm.DeleteMessage(User(c), uint(id)); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

// getWsHandler streams new messages and channel events to the client. Each
// delivery re-checks channel visibility against a fresh member record, so a
// membership change cuts the stream without a reconnect.
func getWsHandler(srv *HttpServer) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		username, _ := ws.Locals(UsernameKey).(string)
		name := uuid.NewString()

		h := wshandler.NewHandler(srv.app.logger, name, ws)
		srv.app.handlers.Add(h)

		srv.app.logger.Debug("ws listener connected")
		wsConnectionsMetric.Inc()

		srv.app.messageCb.AddCallback(name, func(msg *model.MessageDTO) bool {
			if !h.IsActive() {
				return false
			}

			member := srv.app.members.Get(username)

			if _, err := srv.app.dbm.GetChannelFor(member, msg.ChannelID); err != nil {
				return true
			}

			return h.NewMessage(msg)
		})

		srv.app.channelCb.AddCallback(name, func(ch *model.ChannelDTO) bool {
			if !h.IsActive() {
				return false
			}

			member := srv.app.members.Get(username)

			if _, err := srv.app.dbm.GetChannelFor(member, ch.ID); err != nil {
				return true
			}

			return h.ChannelChanged(ch)
		})

		h.Listen()

		srv.app.logger.Debug("ws listener disconnected")
		wsConnectionsMetric.Dec()
		srv.app.handlers.Remove(name)
		srv.app.messageCb.RemoveCallback(name)
		srv.app.channelCb.RemoveCallback(name)
	})
}
