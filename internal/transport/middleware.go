package transport

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/metrics"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
)

const censored = "$censored"

var sensitiveFields = map[string]struct{}{
	"password":     {},
	"refreshtoken": {},
}

// AuthMiddleware resolves the bearer token, if any, into the request's
// principal. Requests without a token continue as anonymous; a token that
// does not verify is rejected.
func (s *HTTPServer) AuthMiddleware(c *fiber.Ctx) error {
	c.Locals(principalKey, policy.Anonymous)

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Next()
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return apperrors.Unauthorized("malformed authorization header")
	}

	p, err := s.svc.Auth.Authenticate(strings.TrimSpace(token))
	if err != nil {
		return err
	}
	c.Locals(principalKey, p)
	return c.Next()
}

func RequireAuth(c *fiber.Ctx) error {
	if !GetPrincipal(c).Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	return c.Next()
}

func RequireAdmin(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if !p.Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	if !p.IsAdmin() {
		return apperrors.Forbidden("admin role required")
	}
	return c.Next()
}

func (s *HTTPServer) RateLimit(c *fiber.Ctx) error {
	if s.limiter.Allow(c.IP()) {
		return c.Next()
	}
	metrics.RateLimited.Inc()
	return apperrors.ErrRateLimited
}

// RequestLogger logs every request once it has been answered, records its
// metrics and renders errors returned down the chain.
func (s *HTTPServer) RequestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if chainErr := c.Next(); chainErr != nil {
		if err := s.ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	latency := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path

	metrics.RecordHTTPRequest(c.Method(), route, status, latency)

	fields := []interface{}{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", latency,
		"ip", c.IP(),
	}
	if body := c.Body(); len(body) != 0 && c.Method() != fiber.MethodGet {
		fields = append(fields, "body", string(censorBody(body)))
	}
	s.logger.Debugw("request", fields...)

	return nil
}

// ErrorHandler writes err as a JSON error body. Internal errors are logged
// and replaced by a generic message.
func (s *HTTPServer) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(&apperrors.Error{Code: codeForStatus(fe.Code), Message: fe.Message})
	}

	appErr := apperrors.From(err)
	if appErr.Code == apperrors.CodeInternal {
		s.logger.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		appErr = apperrors.ErrInternal
	}
	return c.Status(appErr.Code.HTTPStatus()).JSON(appErr)
}

func codeForStatus(status int) apperrors.Code {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case fiber.StatusForbidden:
		return apperrors.CodeForbidden
	case fiber.StatusConflict:
		return apperrors.CodeConflict
	case fiber.StatusTooManyRequests:
		return apperrors.CodeRateLimited
	}
	if status < fiber.StatusInternalServerError {
		return apperrors.CodeValidation
	}
	return apperrors.CodeInternal
}

// censorBody masks credentials in a JSON request body before it is logged.
// Bodies that are not JSON objects are returned unchanged.
func censorBody(b []byte) []byte {
	var fields map[string]interface{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return b
	}
	for k := range fields {
		if _, ok := sensitiveFields[strings.ToLower(k)]; ok {
			fields[k] = censored
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return b
	}
	return out
}
