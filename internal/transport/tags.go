package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
)

func (s *HTTPServer) TagListPublic(c *fiber.Ctx) error {
	tags, err := s.svc.Tags.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.NewTagResps(tags))
}

func (s *HTTPServer) TagListVisible(c *fiber.Ctx) error {
	tags, err := s.svc.Tags.ListVisible(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(models.NewTagResps(tags))
}

func (s *HTTPServer) TagListByOwner(c *fiber.Ctx) error {
	ownerID, err := GetAndParseParam(c, "userId")
	if err != nil {
		return err
	}
	tags, err := s.svc.Tags.ListByOwner(c.UserContext(), GetPrincipal(c), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(models.NewTagResps(tags))
}

func (s *HTTPServer) TagCreate(c *fiber.Ctx) error {
	req := models.TagReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	tag, err := s.svc.Tags.Create(c.UserContext(), GetPrincipal(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewTagResp(*tag))
}

func (s *HTTPServer) TagUpdate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	req := models.TagReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	tag, err := s.svc.Tags.Update(c.UserContext(), GetPrincipal(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(models.NewTagResp(*tag))
}

func (s *HTTPServer) TagDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Tags.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(models.DeletedResp{Deleted: true})
}
