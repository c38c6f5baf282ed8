package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

// ListComments returns the marker's comments newest first, with authors loaded.
func (r *GormRepository) ListComments(ctx context.Context, markerID uuid.UUID) ([]db.Comment, error) {
	comments := make([]db.Comment, 0)
	err := r.conn(ctx).
		Preload("Author").
		Where("marker_id = ?", markerID).
		Order("created_at DESC").Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "list comments")
	}
	return comments, nil
}

func (r *GormRepository) GetComment(ctx context.Context, id uuid.UUID) (*db.Comment, error) {
	comment := db.Comment{}
	if err := r.conn(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err, "get comment")
	}
	return &comment, nil
}

func (r *GormRepository) CreateComment(ctx context.Context, c *db.Comment) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(c).Error, "create comment")
}

func (r *GormRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&db.Comment{})
	if res.Error != nil {
		return translate(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteCommentsByMarker(ctx context.Context, markerID uuid.UUID) (int64, error) {
	res := r.conn(ctx).Where("marker_id = ?", markerID).Delete(&db.Comment{})
	return res.RowsAffected, translate(res.Error, "delete comments by marker")
}
