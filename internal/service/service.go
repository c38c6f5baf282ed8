package service

import (
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

var Module = fx.Provide(
	validation.New,
	NewMarkers,
	NewTags,
	NewComments,
	NewAuth,
	NewUsers,
	NewReports,
)

func requireAuth(p policy.Principal) error {
	if !p.Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	return nil
}

func requireAdmin(p policy.Principal) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperrors.Forbidden("admin role required")
	}
	return nil
}

// notFound turns a missing row into a domain NotFound naming what was looked
// up. Other errors pass through.
func notFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(what + " not found")
	}
	return err
}

// listScope maps a principal onto the SQL side of the list rule.
func listScope(p policy.Principal) store.ListScope {
	if p.IsAdmin() {
		return store.ListScope{All: true}
	}
	if p.Authenticated() {
		id := p.ID
		return store.ListScope{ViewerID: &id}
	}
	return store.ListScope{}
}
