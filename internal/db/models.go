package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
)

const DefaultTagColor = "#136f41"

type (
	GormForkedModel struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		GormForkedModel
		Username              string `gorm:"not null;uniqueIndex"`
		Email                 string `gorm:"not null;uniqueIndex"`
		Password              string `gorm:"not null"`
		Role                  string `gorm:"not null;default:user"`
		RefreshToken          *string
		RefreshTokenExpiresAt *time.Time
	}

	// Marker.OwnerID has no foreign key; markers outlive the owner's account.
	Marker struct {
		GormForkedModel
		OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
		AuthorName  string    `gorm:"not null"`
		Latitude    float64   `gorm:"not null"`
		Longitude   float64   `gorm:"not null"`
		Emoji       string    `gorm:"not null"`
		Title       string    `gorm:"not null"`
		Description string
		Visibility  string    `gorm:"not null;default:public;index"`
		Tags        []Tag     `gorm:"many2many:marker_tags;constraint:OnDelete:CASCADE"`
		Comments    []Comment `gorm:"foreignKey:MarkerID;constraint:OnDelete:CASCADE"`
	}

	Tag struct {
		GormForkedModel
		OwnerID  uuid.UUID `gorm:"type:uuid;not null;index"`
		Owner    User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
		Label    string    `gorm:"not null"`
		LabelKey string    `gorm:"not null;uniqueIndex:uidx_tags_label_key"`
		Color    string    `gorm:"not null"`
		Scope    string    `gorm:"not null;default:public;index"`
		Markers  []Marker  `gorm:"many2many:marker_tags;constraint:OnDelete:CASCADE"`
	}

	MarkerTag struct {
		MarkerID  uuid.UUID `gorm:"type:uuid;primaryKey"`
		TagID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
		CreatedAt time.Time
	}

	Comment struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
		Content   string    `gorm:"not null"`
		CreatedAt time.Time `gorm:"index"`
		AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
		Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
		MarkerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	}
)

func (m *GormForkedModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m Marker) OwnerRef() uuid.UUID              { return m.OwnerID }
func (m Marker) VisibilityRef() policy.Visibility { return policy.Visibility(m.Visibility) }

func (t Tag) OwnerRef() uuid.UUID              { return t.OwnerID }
func (t Tag) VisibilityRef() policy.Visibility { return policy.Visibility(t.Scope) }

// TagKeys returns the label keys of the marker's loaded tags.
func (m Marker) TagKeys() []string {
	keys := make([]string, len(m.Tags))
	for i := range m.Tags {
		keys[i] = m.Tags[i].LabelKey
	}
	return keys
}

// LabelKey is the uniqueness key of a tag label: trimmed and lower-cased, so
// "Natura" and " natura" name the same tag.
func LabelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{&User{}, &Marker{}, &Tag{}, &MarkerTag{}, &Comment{}}
}

// SetupJoinTables registers MarkerTag as the explicit join model for the
// marker/tag many2many relation. It must run before migrating or querying.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Marker{}, "Tags", &MarkerTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Tag{}, "Markers", &MarkerTag{})
}
