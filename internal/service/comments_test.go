package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
)

func commentReq(markerID uuid.UUID, content string) *models.CommentReq {
	return &models.CommentReq{MarkerID: markerID.String(), Content: content}
}

func TestAddAndListComments(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c, err := e.comments.Add(ctx, bob, commentReq(zakrzowekID, "  Piękny widok  "))
	require.NoError(t, err)
	assert.Equal(t, "Piękny widok", c.Content)
	assert.Equal(t, "Test2", c.Author.Username)
	assert.False(t, c.CreatedAt.IsZero())

	comments, err := e.comments.List(ctx, policy.Anonymous, zakrzowekID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, c.ID, comments[0].ID)
	assert.Equal(t, "Admin", comments[1].Author.Username)
}

func TestAddCommentValidation(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.comments.Add(ctx, bob, commentReq(zakrzowekID, "   "))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.comments.Add(ctx, bob, commentReq(zakrzowekID, strings.Repeat("ż", 1001)))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.comments.Add(ctx, bob, commentReq(zakrzowekID, strings.Repeat("ż", 1000)))
	assert.NoError(t, err)

	_, err = e.comments.Add(ctx, bob, &models.CommentReq{MarkerID: "nope", Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.comments.Add(ctx, bob, commentReq(uuid.New(), "x"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = e.comments.Add(ctx, policy.Principal{ID: uuid.New(), Role: policy.RoleUser}, commentReq(zakrzowekID, "ghost"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentsOnPrivateMarker(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	req := markerReq("Ukryte")
	req.Visibility = "private"
	m, err := e.markers.Create(ctx, alice, req)
	require.NoError(t, err)

	_, err = e.comments.Add(ctx, bob, commentReq(m.ID, "hej"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = e.comments.List(ctx, bob, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = e.comments.Add(ctx, alice, commentReq(m.ID, "notatka"))
	assert.NoError(t, err)
}

func TestDeleteCommentByStrangerIsForbidden(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	err := e.comments.Delete(ctx, bob, pizzaCommentID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	comments, err := e.comments.List(ctx, bob, pizzaID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, pizzaCommentID, comments[0].ID)
}

func TestDeleteCommentByAuthorOrAdmin(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	require.NoError(t, e.comments.Delete(ctx, alice, pizzaCommentID))
	assert.ErrorIs(t, e.comments.Delete(ctx, alice, pizzaCommentID), apperrors.ErrNotFound)

	c, err := e.comments.Add(ctx, bob, commentReq(pizzaID, "Za droga"))
	require.NoError(t, err)
	require.NoError(t, e.comments.Delete(ctx, admin, c.ID))
}

func TestAddCommentLimitAfterTrim(t *testing.T) {
	e := newEnv(t, true)

	content := strings.Repeat("ż", 1000)
	c, err := e.comments.Add(context.Background(), bob, commentReq(zakrzowekID, "\n "+content+"  "))
	require.NoError(t, err)
	assert.Equal(t, content, c.Content)
}
