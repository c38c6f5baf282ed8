package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
)

// ReportTrending ranks public markers only; the admin summary carries the
// unrestricted ranking.
func (s *HTTPServer) ReportTrending(c *fiber.Ctx) error {
	rows, err := s.svc.Reports.Trending(c.UserContext(), true)
	if err != nil {
		return err
	}
	return c.JSON(models.NewTrendingResps(rows))
}

func (s *HTTPServer) ReportSummary(c *fiber.Ctx) error {
	report, err := s.svc.Reports.Summary(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *HTTPServer) ReportUser(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	report, err := s.svc.Reports.User(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(report)
}
