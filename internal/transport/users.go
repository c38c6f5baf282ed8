package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
)

func (s *HTTPServer) Register(c *fiber.Ctx) error {
	req := models.RegisterReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	user, err := s.svc.Auth.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewUserResp(*user))
}

func (s *HTTPServer) Login(c *fiber.Ctx) error {
	req := models.LoginReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	session, err := s.svc.Auth.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(tokenResp(session))
}

func (s *HTTPServer) Refresh(c *fiber.Ctx) error {
	req := models.RefreshReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	session, err := s.svc.Auth.Refresh(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(tokenResp(session))
}

func (s *HTTPServer) Me(c *fiber.Ctx) error {
	user, err := s.svc.Auth.Me(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(models.NewUserResp(*user))
}

func (s *HTTPServer) UserList(c *fiber.Ctx) error {
	users, err := s.svc.Users.List(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(models.NewUserResps(users))
}

func (s *HTTPServer) UserGet(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := s.svc.Users.Get(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(models.NewUserResp(*user))
}

func (s *HTTPServer) UserUpdate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	req := models.UserUpdateReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	user, err := s.svc.Users.Update(c.UserContext(), GetPrincipal(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(models.NewUserResp(*user))
}

func (s *HTTPServer) UserDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Users.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(models.DeletedResp{Deleted: true})
}

func tokenResp(session *service.Session) models.TokenResp {
	return models.TokenResp{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int64(session.ExpiresIn.Seconds()),
		User:         models.NewUserResp(*session.User),
	}
}
