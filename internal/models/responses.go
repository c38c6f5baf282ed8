package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
)

type (
	MarkerResp struct {
		ID               uuid.UUID `json:"id"`
		OwnerID          uuid.UUID `json:"ownerId"`
		OwnerDisplayName string    `json:"ownerDisplayName"`
		Lat              float64   `json:"lat"`
		Lng              float64   `json:"lng"`
		EmojiCode        string    `json:"emojiCode"`
		Title            string    `json:"title"`
		Description      string    `json:"description"`
		Tags             []string  `json:"tags"`
		Visibility       string    `json:"visibility"`
		CreatedAt        time.Time `json:"createdAt"`
	}

	TagResp struct {
		ID       uuid.UUID `json:"id"`
		Label    string    `json:"label"`
		ColorHex string    `json:"colorHex"`
		Scope    string    `json:"scope"`
		OwnerID  uuid.UUID `json:"ownerId"`
	}

	CommentResp struct {
		ID                uuid.UUID `json:"id"`
		Content           string    `json:"content"`
		CreatedAt         time.Time `json:"createdAt"`
		AuthorID          uuid.UUID `json:"authorId"`
		AuthorDisplayName string    `json:"authorDisplayName"`
		MarkerID          uuid.UUID `json:"markerId"`
	}

	UserResp struct {
		ID        uuid.UUID `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"createdAt"`
	}

	TokenResp struct {
		AccessToken  string   `json:"accessToken"`
		RefreshToken string   `json:"refreshToken"`
		ExpiresIn    int64    `json:"expiresIn"`
		User         UserResp `json:"user"`
	}

	TrendingResp struct {
		ID           uuid.UUID `json:"id"`
		Title        string    `json:"title"`
		EmojiCode    string    `json:"emojiCode"`
		CommentCount int64     `json:"commentCount"`
	}

	DeletedResp struct {
		Deleted bool `json:"deleted"`
	}
)

func NewMarkerResp(m db.Marker) MarkerResp {
	labels := make([]string, len(m.Tags))
	for i := range m.Tags {
		labels[i] = m.Tags[i].Label
	}
	return MarkerResp{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		OwnerDisplayName: m.AuthorName,
		Lat:              m.Latitude,
		Lng:              m.Longitude,
		EmojiCode:        m.Emoji,
		Title:            m.Title,
		Description:      m.Description,
		Tags:             labels,
		Visibility:       m.Visibility,
		CreatedAt:        m.CreatedAt,
	}
}

func NewMarkerResps(markers []db.Marker) []MarkerResp {
	resp := make([]MarkerResp, len(markers))
	for i := range markers {
		resp[i] = NewMarkerResp(markers[i])
	}
	return resp
}

func NewTagResp(t db.Tag) TagResp {
	return TagResp{
		ID:       t.ID,
		Label:    t.Label,
		ColorHex: t.Color,
		Scope:    t.Scope,
		OwnerID:  t.OwnerID,
	}
}

func NewTagResps(tags []db.Tag) []TagResp {
	resp := make([]TagResp, len(tags))
	for i := range tags {
		resp[i] = NewTagResp(tags[i])
	}
	return resp
}

func NewCommentResp(c db.Comment) CommentResp {
	return CommentResp{
		ID:                c.ID,
		Content:           c.Content,
		CreatedAt:         c.CreatedAt,
		AuthorID:          c.AuthorID,
		AuthorDisplayName: c.Author.Username,
		MarkerID:          c.MarkerID,
	}
}

func NewCommentResps(comments []db.Comment) []CommentResp {
	resp := make([]CommentResp, len(comments))
	for i := range comments {
		resp[i] = NewCommentResp(comments[i])
	}
	return resp
}

func NewUserResp(u db.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserResps(users []db.User) []UserResp {
	resp := make([]UserResp, len(users))
	for i := range users {
		resp[i] = NewUserResp(users[i])
	}
	return resp
}

func NewTrendingResps(rows []store.TrendingRow) []TrendingResp {
	resp := make([]TrendingResp, len(rows))
	for i := range rows {
		resp[i] = TrendingResp{
			ID:           rows[i].ID,
			Title:        rows[i].Title,
			EmojiCode:    rows[i].Emoji,
			CommentCount: rows[i].CommentCount,
		}
	}
	return resp
}
