package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

func (r *GormRepository) ListTags(ctx context.Context, q TagQuery) ([]db.Tag, error) {
	tx := r.conn(ctx).Model(&db.Tag{})
	if q.OwnerID != nil {
		tx = tx.Where("owner_id = ?", *q.OwnerID)
	}
	if !q.Scope.All {
		if q.Scope.ViewerID != nil {
			tx = tx.Where("(scope = ? OR owner_id = ?)", "public", *q.Scope.ViewerID)
		} else {
			tx = tx.Where("scope = ?", "public")
		}
	}

	tags := make([]db.Tag, 0)
	if err := tx.Order("label_key").Find(&tags).Error; err != nil {
		return nil, translate(err, "list tags")
	}
	return tags, nil
}

func (r *GormRepository) GetTag(ctx context.Context, id uuid.UUID) (*db.Tag, error) {
	tag := db.Tag{}
	if err := r.conn(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, translate(err, "get tag")
	}
	return &tag, nil
}

func (r *GormRepository) FindTagByKey(ctx context.Context, key string) (*db.Tag, error) {
	tag := db.Tag{}
	if err := r.conn(ctx).Where("label_key = ?", key).First(&tag).Error; err != nil {
		return nil, translate(err, "find tag")
	}
	return &tag, nil
}

func (r *GormRepository) CreateTag(ctx context.Context, t *db.Tag) error {
	t.LabelKey = db.LabelKey(t.Label)
	return translate(r.conn(ctx).Omit(clause.Associations).Create(t).Error, "create tag")
}

func (r *GormRepository) UpdateTag(ctx context.Context, t *db.Tag) error {
	t.LabelKey = db.LabelKey(t.Label)
	res := r.conn(ctx).Model(t).
		Select("label", "label_key", "color", "scope", "updated_at").
		Omit(clause.Associations).
		Updates(t)
	if res.Error != nil {
		return translate(res.Error, "update tag")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTags removes the tags and every association pointing at them.
func (r *GormRepository) DeleteTags(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	conn := r.conn(ctx)
	keys := uuidStrings(ids)
	if err := conn.Where("tag_id IN ?", keys).Delete(&db.MarkerTag{}).Error; err != nil {
		return translate(err, "delete tag associations")
	}
	return translate(conn.Where("id IN ?", keys).Delete(&db.Tag{}).Error, "delete tags")
}
