// Package store is the persistence boundary. Repository hides gorm from the
// services; every multi-step write goes through Transaction.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

var Module = fx.Provide(
	fx.Annotate(NewGormRepository, fx.As(new(Repository))),
)

type (
	// MarkerQuery narrows a marker listing. Visibility rules are applied by
	// the caller through Scope.
	MarkerQuery struct {
		Scope   ListScope
		OwnerID *uuid.UUID
		TagKeys []string
	}

	// ListScope is the SQL side of the list composition rule.
	ListScope struct {
		// All disables visibility filtering (admins).
		All bool
		// ViewerID, when set, adds the viewer's own items to the public ones.
		ViewerID *uuid.UUID
	}

	TagQuery struct {
		Scope   ListScope
		OwnerID *uuid.UUID
	}

	TrendingRow struct {
		ID           uuid.UUID
		Title        string
		Emoji        string
		CommentCount int64
	}

	Activity struct {
		Markers      int64
		Comments     int64
		LastMarkerAt *time.Time
	}

	Repository interface {
		// Transaction runs fn against a repository bound to one database
		// transaction. Nested calls use savepoints.
		Transaction(ctx context.Context, fn func(r Repository) error) error

		CreateUser(ctx context.Context, u *db.User) error
		GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
		GetUserByEmail(ctx context.Context, email string) (*db.User, error)
		ListUsers(ctx context.Context) ([]db.User, error)
		UpdateUser(ctx context.Context, u *db.User) error
		DeleteUser(ctx context.Context, id uuid.UUID) error
		DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
		ListTagIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

		ListMarkers(ctx context.Context, q MarkerQuery) ([]db.Marker, error)
		GetMarker(ctx context.Context, id uuid.UUID) (*db.Marker, error)
		CreateMarker(ctx context.Context, m *db.Marker) error
		UpdateMarker(ctx context.Context, m *db.Marker) error
		DeleteMarker(ctx context.Context, id uuid.UUID) error
		// ReplaceMarkerTags swaps the marker's associations for tagIDs and
		// returns the tag ids whose association was removed.
		ReplaceMarkerTags(ctx context.Context, markerID uuid.UUID, tagIDs []uuid.UUID) ([]uuid.UUID, error)
		// SweepOrphanTags deletes those of tagIDs that no marker references.
		SweepOrphanTags(ctx context.Context, tagIDs []uuid.UUID) (int64, error)

		ListTags(ctx context.Context, q TagQuery) ([]db.Tag, error)
		GetTag(ctx context.Context, id uuid.UUID) (*db.Tag, error)
		FindTagByKey(ctx context.Context, key string) (*db.Tag, error)
		CreateTag(ctx context.Context, t *db.Tag) error
		UpdateTag(ctx context.Context, t *db.Tag) error
		DeleteTags(ctx context.Context, ids []uuid.UUID) error

		ListComments(ctx context.Context, markerID uuid.UUID) ([]db.Comment, error)
		GetComment(ctx context.Context, id uuid.UUID) (*db.Comment, error)
		CreateComment(ctx context.Context, c *db.Comment) error
		DeleteComment(ctx context.Context, id uuid.UUID) error
		DeleteCommentsByMarker(ctx context.Context, markerID uuid.UUID) (int64, error)

		CountUsers(ctx context.Context) (int64, error)
		TrendingMarkers(ctx context.Context, limit uint64, publicOnly bool) ([]TrendingRow, error)
		UserActivity(ctx context.Context, userID uuid.UUID) (*Activity, error)
	}

	GormRepository struct {
		db *gorm.DB
	}
)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(r Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// translate maps driver errors onto the package sentinels.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return errors.Wrap(ErrDuplicate, err.Error())
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i := range ids {
		out[i] = ids[i].String()
	}
	return out
}
