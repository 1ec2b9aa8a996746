package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/projectarcadia/portal/internal/database"
	"github.com/projectarcadia/portal/internal/model"
)

const (
	UsernameKey = "username"
	UserKey     = "user"
)

type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func Username(c *fiber.Ctx) string {
	u := c.Locals(UsernameKey)

	if u == nil {
		return ""
	}

	return u.(string)
}

func User(c *fiber.Ctx) *model.Member {
	u := c.Locals(UserKey)

	if u == nil {
		return nil
	}

	return u.(*model.Member)
}

func (srv *HttpServer) makeToken(s *model.Session) (string, error) {
	claims := &tokenClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   s.Member.GetUsername(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(srv.tokenKey)
}

func (srv *HttpServer) parseToken(token string) (string, error) {
	claims := new(tokenClaims)

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("bad signing method")
		}

		return srv.tokenKey, nil
	})

	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}

	return claims.SessionID, nil
}

// getAuthMiddleware resolves the bearer token to a live member and stores
// it in the request locals. Everything under /api runs behind it.
func getAuthMiddleware(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)

		const prefix = "Bearer "

		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		sid, err := srv.parseToken(auth[len(prefix):])

		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		member, err := srv.app.dbm.SessionMember(sid)

		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals(UsernameKey, member.GetUsername())
		c.Locals(UserKey, member)
		c.Locals("sid", sid)

		return c.Next()
	}
}

func getTokenHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data struct {
			Login      string `json:"login"`
			Password   string `json:"password"`
			RememberMe bool   `json:"remember_me"`
		}

		if err := c.BodyParser(&data); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		s, err := srv.app.dbm.Authenticate(data.Login, data.Password, data.RememberMe)

		if err != nil {
			loginsMetric.WithLabelValues("fail").Inc()

			switch {
			case errors.Is(err, database.ErrLocked):
				return c.Status(fiber.StatusLocked).JSON(fiber.Map{
					"error":        "account locked",
					"redirect_url": srv.app.config.RecruitmentURL(),
				})
			case errors.Is(err, database.ErrInvalidCredentials):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":         "invalid credentials",
					"attempts_left": srv.app.dbm.AttemptsLeft(data.Login),
				})
			default:
				return c.SendStatus(fiber.StatusForbidden)
			}
		}

		token, err := srv.makeToken(s)

		if err != nil {
			srv.log.Error("token error", slog.Any("error", err))

			return c.SendStatus(fiber.StatusInternalServerError)
		}

		loginsMetric.WithLabelValues("ok").Inc()
		srv.app.members.Invalidate(data.Login)

		return c.JSON(fiber.Map{"token": token, "member": s.Member.DTO()})
	}
}

func getLogoutHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid, ok := c.Locals("sid").(string); ok {
			if err := srv.app.dbm.Logout(sid); err != nil {
				return sendError(c, err)
			}
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

func getMeHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(User(c).DTO())
	}
}

func getConductHandler(srv *HttpServer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := User(c)

		if err := srv.app.dbm.AcceptConduct(user); err != nil {
			return sendError(c, err)
		}

		srv.app.members.Invalidate(user.GetUsername())

		return c.SendStatus(fiber.StatusOK)
	}
}

// sendError maps data-layer sentinels to status codes.
func sendError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, database.ErrForbidden):
		return c.SendStatus(fiber.StatusForbidden)
	case errors.Is(err, database.ErrConflict):
		return c.SendStatus(fiber.StatusConflict)
	case errors.Is(err, database.ErrValidation):
		return c.SendStatus(fiber.StatusBadRequest)
	case errors.Is(err, database.ErrLocked):
		return c.SendStatus(fiber.StatusLocked)
	case errors.Is(err, database.ErrInvalidCredentials):
		return c.SendStatus(fiber.StatusUnauthorized)
	default:
		return c.SendStatus(fiber.StatusInternalServerError)
	}
}
