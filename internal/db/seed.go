package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Demo data around Kraków. Ids are fixed so seeding twice is a no-op.
var (
	seedAdminID = uuid.MustParse("11111111-1111-1111-1111-11111111111a")
	seedUserID  = uuid.MustParse("22222222-2222-2222-2222-22222222222a")
	seedUser2ID = uuid.MustParse("33333333-3333-3333-3333-33333333333a")
)

// Seed inserts the demo users, tags, markers and comments unless the admin
// account already exists. passwordHash is stored for every seeded user.
func Seed(ctx context.Context, db *gorm.DB, passwordHash string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", seedAdminID).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check seed")
	}
	if count > 0 {
		return false, nil
	}

	tagNatura := uuid.MustParse("33333333-3333-3333-3333-33333333333b")
	tagJedzenie := uuid.MustParse("44444444-4444-4444-4444-44444444444b")
	tagSport := uuid.MustParse("55555555-5555-5555-5555-55555555555b")
	tagKultura := uuid.MustParse("66666666-6666-6666-6666-66666666666b")

	m1 := uuid.MustParse("55555555-5555-5555-5555-55555555555c")
	m2 := uuid.MustParse("66666666-6666-6666-6666-66666666666c")
	m3 := uuid.MustParse("77777777-7777-7777-7777-77777777777c")
	m4 := uuid.MustParse("88888888-8888-8888-8888-88888888888c")

	users := []User{
		{GormForkedModel: GormForkedModel{ID: seedAdminID}, Username: "Admin", Email: "admin@admin.com", Password: passwordHash, Role: "admin"},
		{GormForkedModel: GormForkedModel{ID: seedUserID}, Username: "Test", Email: "test@test.com", Password: passwordHash, Role: "user"},
		{GormForkedModel: GormForkedModel{ID: seedUser2ID}, Username: "Test2", Email: "test2@test.com", Password: passwordHash, Role: "user"},
	}

	tags := []Tag{
		seedTag(tagNatura, seedAdminID, "Natura", "#2ecc71"),
		seedTag(tagJedzenie, seedUserID, "Jedzenie", "#e74c3c"),
		seedTag(tagSport, seedUser2ID, "Sport", "#3498db"),
		seedTag(tagKultura, seedAdminID, "Kultura", "#9b59b6"),
	}

	markers := []Marker{
		seedMarker(m1, seedUserID, "Test", "Zakrzówek", "Tutaj jest bardzo cicho.", "NATURE", 50.037503, 19.910569, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		seedMarker(m2, seedAdminID, "Admin", "Dobra Pizza", "Najlepsza pizza w mieście.", "FOOD", 50.010688, 19.956641, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		seedMarker(m3, seedUser2ID, "Test2", "Basen AGH", "Dobre miejsce na trening.", "GYM", 50.068504, 19.900952, time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)),
		seedMarker(m4, seedAdminID, "Admin", "Muzeum Narodowe", "Wystawa fajna.", "MUSEUM", 50.060299, 19.923599, time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)),
	}

	links := []MarkerTag{
		{MarkerID: m1, TagID: tagNatura},
		{MarkerID: m2, TagID: tagJedzenie},
		{MarkerID: m3, TagID: tagSport},
		{MarkerID: m4, TagID: tagKultura},
	}

	comments := []Comment{
		{ID: uuid.MustParse("77777777-7777-7777-7777-77777777777d"), Content: "Ale super miejsce! Muszę tam pojechać.", CreatedAt: time.Date(2025, 12, 1, 5, 37, 0, 0, time.UTC), AuthorID: seedAdminID, MarkerID: m1},
		{ID: uuid.MustParse("88888888-8888-8888-8888-88888888888d"), Content: "Potwierdzam, pizza rewelacja!", CreatedAt: time.Date(2025, 12, 2, 11, 34, 0, 0, time.UTC), AuthorID: seedUserID, MarkerID: m2},
		{ID: uuid.MustParse("99999999-9999-9999-9999-99999999999d"), Content: "Świetny sprzęt!", CreatedAt: time.Date(2025, 12, 1, 7, 37, 0, 0, time.UTC), AuthorID: seedUserID, MarkerID: m3},
		{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000d"), Content: "Bardzo ciekawe.", CreatedAt: time.Date(2025, 12, 2, 3, 30, 0, 0, time.UTC), AuthorID: seedUser2ID, MarkerID: m4},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&users).Error; err != nil {
			return errors.Wrap(err, "seed users")
		}
		if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
			return errors.Wrap(err, "seed tags")
		}
		if err := tx.Omit(clause.Associations).Create(&markers).Error; err != nil {
			return errors.Wrap(err, "seed markers")
		}
		if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
			return errors.Wrap(err, "seed marker tags")
		}
		if err := tx.Omit(clause.Associations).Create(&comments).Error; err != nil {
			return errors.Wrap(err, "seed comments")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func seedTag(id, owner uuid.UUID, label, color string) Tag {
	return Tag{
		GormForkedModel: GormForkedModel{ID: id},
		OwnerID:         owner,
		Label:           label,
		LabelKey:        LabelKey(label),
		Color:           color,
		Scope:           "public",
	}
}

func seedMarker(id, owner uuid.UUID, author, title, description, emoji string, lat, lng float64, createdAt time.Time) Marker {
	return Marker{
		GormForkedModel: GormForkedModel{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt},
		OwnerID:         owner,
		AuthorName:      author,
		Latitude:        lat,
		Longitude:       lng,
		Emoji:           emoji,
		Title:           title,
		Description:     description,
		Visibility:      "public",
	}
}
