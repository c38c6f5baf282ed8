package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/metrics"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

type Tags struct {
	repo     store.Repository
	validate *validation.Validator
	logger   *zap.SugaredLogger
}

func NewTags(repo store.Repository, v *validation.Validator, l *zap.SugaredLogger) *Tags {
	return &Tags{
		repo:     repo,
		validate: v,
		logger:   l,
	}
}

func (s *Tags) ListPublic(ctx context.Context) ([]db.Tag, error) {
	return s.repo.ListTags(ctx, store.TagQuery{})
}

// ListByOwner lists ownerID's tags; callers other than the owner only see the
// public ones.
func (s *Tags) ListByOwner(ctx context.Context, p policy.Principal, ownerID uuid.UUID) ([]db.Tag, error) {
	tags, err := s.repo.ListTags(ctx, store.TagQuery{
		Scope:   store.ListScope{All: p.Owns(ownerID)},
		OwnerID: &ownerID,
	})
	if err != nil {
		return nil, err
	}
	return s.readable(p, tags), nil
}

// ListVisible lists public tags plus the principal's own.
func (s *Tags) ListVisible(ctx context.Context, p policy.Principal) ([]db.Tag, error) {
	scope := store.ListScope{}
	if p.Authenticated() {
		id := p.ID
		scope.ViewerID = &id
	}
	tags, err := s.repo.ListTags(ctx, store.TagQuery{Scope: scope})
	if err != nil {
		return nil, err
	}
	return s.readable(p, tags), nil
}

func (s *Tags) readable(p policy.Principal, tags []db.Tag) []db.Tag {
	out := tags[:0]
	for _, t := range tags {
		if policy.CanViewTag(p, t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Tags) Create(ctx context.Context, p policy.Principal, req *models.TagReq) (*db.Tag, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	req.Trim()
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	tag := db.Tag{
		OwnerID: p.ID,
		Color:   db.DefaultTagColor,
		Scope:   string(policy.Public),
	}
	applyTagReq(&tag, req)

	if err := s.ensureFree(ctx, tag.Label, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTag(ctx, &tag); err != nil {
		return nil, conflict(err, tag.Label)
	}
	metrics.TagsCreated.WithLabelValues("explicit").Inc()

	return &tag, nil
}

// Update changes the tag in place. Markers hold tags by id, so every marker
// sees the new label at once.
func (s *Tags) Update(ctx context.Context, p policy.Principal, id uuid.UUID, req *models.TagReq) (*db.Tag, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	req.Trim()
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.repo.GetTag(ctx, id)
	if err != nil {
		return nil, notFound(err, "tag")
	}
	if !policy.CanMutate(p, tag) {
		return nil, apperrors.Forbidden("only the owner or an admin can change this tag")
	}

	applyTagReq(tag, req)
	if err := s.ensureFree(ctx, tag.Label, tag.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		return nil, conflict(notFound(err, "tag"), tag.Label)
	}

	return tag, nil
}

// Delete removes the tag together with every marker association.
func (s *Tags) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	tag, err := s.repo.GetTag(ctx, id)
	if err != nil {
		return notFound(err, "tag")
	}
	if !policy.CanMutate(p, tag) {
		return apperrors.Forbidden("only the owner or an admin can delete this tag")
	}

	return s.repo.Transaction(ctx, func(r store.Repository) error {
		return r.DeleteTags(ctx, []uuid.UUID{id})
	})
}

// ensureFree fails with Conflict when another tag already uses label's key.
// The unique index stays the authority; this only gives an early answer.
func (s *Tags) ensureFree(ctx context.Context, label string, self uuid.UUID) error {
	existing, err := s.repo.FindTagByKey(ctx, db.LabelKey(label))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperrors.Conflict("tag \"" + label + "\" already exists")
	}
	return nil
}

func conflict(err error, label string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperrors.Conflict("tag \"" + label + "\" already exists")
	}
	return err
}

func applyTagReq(t *db.Tag, req *models.TagReq) {
	t.Label = strings.TrimSpace(req.Label)
	if req.ColorHex != "" {
		t.Color = req.ColorHex
	}
	if req.Scope != "" {
		t.Scope = req.Scope
	}
}
