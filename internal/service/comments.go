package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/metrics"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

type Comments struct {
	repo     store.Repository
	validate *validation.Validator
	logger   *zap.SugaredLogger
}

func NewComments(repo store.Repository, v *validation.Validator, l *zap.SugaredLogger) *Comments {
	return &Comments{
		repo:     repo,
		validate: v,
		logger:   l,
	}
}

// List returns the marker's comments, newest first.
func (s *Comments) List(ctx context.Context, p policy.Principal, markerID uuid.UUID) ([]db.Comment, error) {
	if _, err := s.readableMarker(ctx, p, markerID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, markerID)
}

func (s *Comments) Add(ctx context.Context, p policy.Principal, req *models.CommentReq) (*db.Comment, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	req.Trim()
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	markerID, err := uuid.Parse(req.MarkerID)
	if err != nil {
		return nil, apperrors.ValidationWithDetails("validation failed", map[string]string{
			"markerId": "must be a valid UUID",
		})
	}

	author, err := s.repo.GetUser(ctx, p.ID)
	if err != nil {
		return nil, notFound(err, "author")
	}
	if _, err := s.readableMarker(ctx, p, markerID); err != nil {
		return nil, err
	}

	comment := db.Comment{
		Content:  req.Content,
		AuthorID: author.ID,
		MarkerID: markerID,
	}
	if err := s.repo.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}
	comment.Author = *author
	metrics.CommentsCreated.Inc()

	return &comment, nil
}

// Delete is allowed to the comment's author and to admins.
func (s *Comments) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	comment, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return notFound(err, "comment")
	}
	if !policy.CanDeleteComment(p, comment.AuthorID) {
		return apperrors.Forbidden("only the author or an admin can delete this comment")
	}
	return notFound(s.repo.DeleteComment(ctx, id), "comment")
}

func (s *Comments) readableMarker(ctx context.Context, p policy.Principal, id uuid.UUID) (*db.Marker, error) {
	marker, err := s.repo.GetMarker(ctx, id)
	if err != nil {
		return nil, notFound(err, "marker")
	}
	if !policy.CanViewMarker(p, marker) {
		return nil, apperrors.NotFound("marker not found")
	}
	return marker, nil
}
