package store

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

// markerIDsQuery builds the id subquery for a listing. Tag filtering joins the
// association table, so a marker matching several desired tags yields several
// rows; the IN (...) around it collapses them.
func markerIDsQuery(q MarkerQuery) squirrel.SelectBuilder {
	sb := squirrel.Select("m.id").From("markers m")

	if len(q.TagKeys) != 0 {
		sb = sb.
			Join("marker_tags mt ON mt.marker_id = m.id").
			Join("tags t ON t.id = mt.tag_id").
			Where(squirrel.Eq{"t.label_key": q.TagKeys})
	}
	if q.OwnerID != nil {
		sb = sb.Where(squirrel.Eq{"m.owner_id": q.OwnerID.String()})
	}
	if !q.Scope.All {
		visible := squirrel.Or{squirrel.Eq{"m.visibility": "public"}}
		if q.Scope.ViewerID != nil {
			visible = append(visible, squirrel.Eq{"m.owner_id": q.Scope.ViewerID.String()})
		}
		sb = sb.Where(visible)
	}
	return sb
}

func (r *GormRepository) ListMarkers(ctx context.Context, q MarkerQuery) ([]db.Marker, error) {
	sql, args, err := markerIDsQuery(q).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	markers := make([]db.Marker, 0)
	res := r.conn(ctx).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.label_key") }).
		Where("id IN (?)", gorm.Expr(sql, args...)).
		Order("created_at DESC").Order("id").
		Find(&markers)
	if res.Error != nil {
		return nil, translate(res.Error, "list markers")
	}
	return markers, nil
}

func (r *GormRepository) GetMarker(ctx context.Context, id uuid.UUID) (*db.Marker, error) {
	marker := db.Marker{}
	err := r.conn(ctx).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.label_key") }).
		Where("id = ?", id).
		First(&marker).Error
	if err != nil {
		return nil, translate(err, "get marker")
	}
	return &marker, nil
}

func (r *GormRepository) CreateMarker(ctx context.Context, m *db.Marker) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(m).Error, "create marker")
}

func (r *GormRepository) UpdateMarker(ctx context.Context, m *db.Marker) error {
	res := r.conn(ctx).Model(m).
		Select("latitude", "longitude", "emoji", "title", "description", "visibility", "updated_at").
		Omit(clause.Associations).
		Updates(m)
	if res.Error != nil {
		return translate(res.Error, "update marker")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteMarker(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&db.Marker{})
	if res.Error != nil {
		return translate(res.Error, "delete marker")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) ReplaceMarkerTags(ctx context.Context, markerID uuid.UUID, tagIDs []uuid.UUID) ([]uuid.UUID, error) {
	conn := r.conn(ctx)

	previous := make([]uuid.UUID, 0)
	if err := conn.Model(&db.MarkerTag{}).Where("marker_id = ?", markerID).Pluck("tag_id", &previous).Error; err != nil {
		return nil, translate(err, "load marker tags")
	}

	keep := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		keep[id] = struct{}{}
	}
	had := make(map[uuid.UUID]struct{}, len(previous))
	removed := make([]uuid.UUID, 0)
	for _, id := range previous {
		had[id] = struct{}{}
		if _, ok := keep[id]; !ok {
			removed = append(removed, id)
		}
	}

	if len(removed) != 0 {
		err := conn.Where("marker_id = ? AND tag_id IN ?", markerID, uuidStrings(removed)).Delete(&db.MarkerTag{}).Error
		if err != nil {
			return nil, translate(err, "delete marker tags")
		}
	}

	added := make([]db.MarkerTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := had[id]; ok {
			continue
		}
		added = append(added, db.MarkerTag{MarkerID: markerID, TagID: id})
	}
	if len(added) != 0 {
		if err := conn.Create(&added).Error; err != nil {
			return nil, translate(err, "create marker tags")
		}
	}

	return removed, nil
}

func (r *GormRepository) SweepOrphanTags(ctx context.Context, tagIDs []uuid.UUID) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Where("id IN ?", uuidStrings(tagIDs)).
		Where("NOT EXISTS (SELECT 1 FROM marker_tags mt WHERE mt.tag_id = tags.id)").
		Delete(&db.Tag{})
	return res.RowsAffected, translate(res.Error, "sweep orphan tags")
}
