package models

import "strings"

type RegisterReq struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshReq struct {
	UserID       string `json:"userId" validate:"required,uuid"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserUpdateReq struct {
	Username *string `json:"username" validate:"omitempty,notblank,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// MarkerReq is the body of marker create and update. Coordinates are pointers
// so that 0 is distinguishable from a missing value.
type MarkerReq struct {
	Lat         *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	EmojiCode   string   `json:"emojiCode" validate:"required,notblank,max=32"`
	Title       string   `json:"title" validate:"required,notblank,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Tags        []string `json:"tags" validate:"dive,notblank,max=50"`
	Visibility  string   `json:"visibility" validate:"omitempty,visibility"`
}

type TagReq struct {
	Label    string `json:"label" validate:"required,notblank,max=50"`
	ColorHex string `json:"colorHex" validate:"omitempty,tagcolor"`
	Scope    string `json:"scope" validate:"omitempty,visibility"`
}

type CommentReq struct {
	MarkerID string `json:"markerId" validate:"required,uuid"`
	Content  string `json:"content" validate:"required,notblank,max=1000"`
}

// Trim strips surrounding whitespace so length limits apply to the stored
// values.
func (r *MarkerReq) Trim() {
	r.EmojiCode = strings.TrimSpace(r.EmojiCode)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	for i := range r.Tags {
		r.Tags[i] = strings.TrimSpace(r.Tags[i])
	}
}

func (r *TagReq) Trim() {
	r.Label = strings.TrimSpace(r.Label)
	r.ColorHex = strings.TrimSpace(r.ColorHex)
}

func (r *CommentReq) Trim() {
	r.Content = strings.TrimSpace(r.Content)
}
