package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
)

func (s *HTTPServer) CommentList(c *fiber.Ctx) error {
	markerID, err := GetAndParseParam(c, "markerId")
	if err != nil {
		return err
	}
	comments, err := s.svc.Comments.List(c.UserContext(), GetPrincipal(c), markerID)
	if err != nil {
		return err
	}
	return c.JSON(models.NewCommentResps(comments))
}

func (s *HTTPServer) CommentCreate(c *fiber.Ctx) error {
	req := models.CommentReq{}
	if err := BindBody(c, &req); err != nil {
		return err
	}
	comment, err := s.svc.Comments.Add(c.UserContext(), GetPrincipal(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewCommentResp(*comment))
}

func (s *HTTPServer) CommentDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Comments.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(models.DeletedResp{Deleted: true})
}
