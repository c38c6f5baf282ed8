package store

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&db.User{}).Count(&n).Error
	return n, translate(err, "count users")
}

// TrendingMarkers ranks markers by comment count. Markers without comments
// still rank, with a zero count; ties go to the older marker.
func (r *GormRepository) TrendingMarkers(ctx context.Context, limit uint64, publicOnly bool) ([]TrendingRow, error) {
	sb := squirrel.
		Select("m.id", "m.title", "m.emoji", "COUNT(c.id) AS comment_count").
		From("markers m").
		LeftJoin("comments c ON c.marker_id = m.id").
		GroupBy("m.id", "m.title", "m.emoji", "m.created_at").
		OrderBy("comment_count DESC", "m.created_at ASC", "m.id").
		Limit(limit)
	if publicOnly {
		sb = sb.Where(squirrel.Eq{"m.visibility": "public"})
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]TrendingRow, 0, limit)
	if err := r.conn(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, translate(err, "trending markers")
	}
	return rows, nil
}

func (r *GormRepository) UserActivity(ctx context.Context, userID uuid.UUID) (*Activity, error) {
	conn := r.conn(ctx)
	activity := Activity{}

	if err := conn.Model(&db.Marker{}).Where("owner_id = ?", userID).Count(&activity.Markers).Error; err != nil {
		return nil, translate(err, "count markers")
	}
	if err := conn.Model(&db.Comment{}).Where("author_id = ?", userID).Count(&activity.Comments).Error; err != nil {
		return nil, translate(err, "count comments")
	}
	if activity.Markers == 0 {
		return &activity, nil
	}

	latest := db.Marker{}
	err := conn.Select("id", "created_at").
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error
	if err != nil {
		return nil, translate(err, "latest marker")
	}
	activity.LastMarkerAt = &latest.CreatedAt

	return &activity, nil
}
