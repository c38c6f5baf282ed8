package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
)

func (s *HTTPServer) MarkerListPublic(c *fiber.Ctx) error {
	markers, err := s.svc.Markers.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.NewMarkerResps(markers))
}

func (s *HTTPServer) MarkerListVisible(c *fiber.Ctx) error {
	markers, err := s.svc.Markers.ListVisible(c.UserContext(), GetPrincipal(c), tagFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(models.NewMarkerResps(markers))
}

func (s *HTTPServer) MarkerListByOwner(c *fiber.Ctx) error {
	ownerID, err := GetAndParseParam(c, "userId")
	if err != nil {
		return err
	}
	markers, err := s.svc.Markers.ListByOwner(c.UserContext(), GetPrincipal(c), ownerID, tagFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(models.NewMarkerResps(markers))
}

func (s *HTTPServer) MarkerGet(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	marker, err := s.svc.Markers.Get(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(models.NewMarkerResp(*marker))
}

func (s *HTTPServer) MarkerCreate(c *fiber.Ctx) error {
	req := models.MarkerReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	marker, err := s.svc.Markers.Create(c.UserContext(), GetPrincipal(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewMarkerResp(*marker))
}

func (s *HTTPServer) MarkerUpdate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	req := models.MarkerReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	marker, err := s.svc.Markers.Update(c.UserContext(), GetPrincipal(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(models.NewMarkerResp(*marker))
}

func (s *HTTPServer) MarkerDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Markers.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(models.DeletedResp{Deleted: true})
}
