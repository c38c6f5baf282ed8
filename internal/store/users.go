package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

func (r *GormRepository) CreateUser(ctx context.Context, u *db.User) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(u).Error, "create user")
}

func (r *GormRepository) GetUser(ctx context.Context, id uuid.UUID) (*db.User, error) {
	user := db.User{}
	if err := r.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	user := db.User{}
	if err := r.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (r *GormRepository) ListUsers(ctx context.Context) ([]db.User, error) {
	users := make([]db.User, 0)
	if err := r.conn(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (r *GormRepository) UpdateUser(ctx context.Context, u *db.User) error {
	res := r.conn(ctx).Model(u).
		Select("username", "email", "password", "role", "refresh_token", "refresh_token_expires_at", "updated_at").
		Updates(u)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&db.User{})
	if res.Error != nil {
		return translate(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	res := r.conn(ctx).Where("author_id = ?", authorID).Delete(&db.Comment{})
	return res.RowsAffected, translate(res.Error, "delete comments by author")
}

func (r *GormRepository) ListTagIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	if err := r.conn(ctx).Model(&db.Tag{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return nil, translate(err, "list tag ids by owner")
	}
	return ids, nil
}
