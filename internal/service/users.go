package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

type Users struct {
	repo     store.Repository
	validate *validation.Validator
	logger   *zap.SugaredLogger
}

func NewUsers(repo store.Repository, v *validation.Validator, l *zap.SugaredLogger) *Users {
	return &Users{
		repo:     repo,
		validate: v,
		logger:   l,
	}
}

func (s *Users) List(ctx context.Context, p policy.Principal) ([]db.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

func (s *Users) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*db.User, error) {
	if err := s.authorize(p, id); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *Users) Update(ctx context.Context, p policy.Principal, id uuid.UUID, req *models.UserUpdateReq) (*db.User, error) {
	if err := s.authorize(p, id); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("username or email already taken")
		}
		return nil, notFound(err, "user")
	}
	return user, nil
}

// Delete removes the account with its comments and tags. Markers stay and
// keep pointing at the removed owner.
func (s *Users) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if err := s.authorize(p, id); err != nil {
		return err
	}
	if _, err := s.repo.GetUser(ctx, id); err != nil {
		return notFound(err, "user")
	}

	return s.repo.Transaction(ctx, func(r store.Repository) error {
		comments, err := r.DeleteCommentsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		tagIDs, err := r.ListTagIDsByOwner(ctx, id)
		if err != nil {
			return err
		}
		if err := r.DeleteTags(ctx, tagIDs); err != nil {
			return err
		}
		if err := r.DeleteUser(ctx, id); err != nil {
			return notFound(err, "user")
		}
		s.logger.Infow("user deleted", "user", id, "by", p.ID, "comments", comments, "tags", len(tagIDs))
		return nil
	})
}

func (s *Users) authorize(p policy.Principal, id uuid.UUID) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	if !policy.CanManageUser(p, id) {
		return apperrors.Forbidden("only the account owner or an admin can do this")
	}
	return nil
}
