//go:build functional

package test_functional

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
)

func TestRegister(t *testing.T) {
	t.Run("successful register", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := request(ctx, "").
			SetResult(&models.UserResp{}).
			SetBody(`
			{"username": "tester", "email": "test@gmail.com", "password": "111111111111"}
		`).
			Post(endpoint("/api/auth/register"))
		assert.Nil(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode())

		got, ok := resp.Result().(*models.UserResp)
		assert.True(t, ok)
		assert.Equal(t, "tester", got.Username)

		var (
			email    string
			password string
		)
		err = DBConn.QueryRow(ctx, "SELECT email, password FROM users WHERE id=$1", got.ID).Scan(&email, &password)
		assert.Nil(t, err)

		assert.Equal(t, "test@gmail.com", email)
		assert.NotEqual(t, "111111111111", password)
	})

	t.Run("bad body", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := request(ctx, "").
			SetBody(`
			{"something": "???"}
		`).
			Post(endpoint("/api/auth/register"))
		assert.Nil(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestMarkerLifecycle(t *testing.T) {
	defer FlushDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	session := registerAndLogin(t, ctx, "cartographer")

	lat, lng := 50.0614, 19.9366
	resp, err := request(ctx, session.AccessToken).
		SetBody(models.MarkerReq{
			Lat:       &lat,
			Lng:       &lng,
			EmojiCode: "🏰",
			Title:     "Wawel",
			Tags:      []string{"Zamek", "zamek ", "Historia"},
		}).
		SetResult(&models.MarkerResp{}).
		Post(endpoint("/api/markers"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	created := resp.Result().(*models.MarkerResp)
	assert.ElementsMatch(t, []string{"Zamek", "Historia"}, created.Tags)

	var tags int
	err = DBConn.QueryRow(ctx, "SELECT count(*) FROM tags WHERE owner_id=$1", session.User.ID).Scan(&tags)
	require.NoError(t, err)
	assert.Equal(t, 2, tags)

	resp, err = request(ctx, "").
		SetResult(&[]models.MarkerResp{}).
		SetQueryParam("tags", "historia").
		Get(endpoint("/api/markers/public"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	listed := *resp.Result().(*[]models.MarkerResp)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	resp, err = request(ctx, session.AccessToken).
		SetBody(models.CommentReq{MarkerID: created.ID.String(), Content: "Piękny widok"}).
		Post(endpoint("/api/comments"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	resp, err = request(ctx, session.AccessToken).
		SetBody(models.MarkerReq{
			Lat:       &lat,
			Lng:       &lng,
			EmojiCode: "🏰",
			Title:     "Wawel",
			Tags:      []string{"Historia"},
		}).
		Put(endpoint("/api/markers/" + created.ID.String()))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	err = DBConn.QueryRow(ctx, "SELECT count(*) FROM tags WHERE owner_id=$1", session.User.ID).Scan(&tags)
	require.NoError(t, err)
	assert.Equal(t, 1, tags, "orphaned tag should be swept")

	resp, err = request(ctx, session.AccessToken).
		Delete(endpoint("/api/markers/" + created.ID.String()))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	var comments int
	err = DBConn.QueryRow(ctx, "SELECT count(*) FROM comments WHERE marker_id=$1", created.ID).Scan(&comments)
	require.NoError(t, err)
	assert.Zero(t, comments)
}

func TestForeignMarkerIsForbidden(t *testing.T) {
	defer FlushDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	owner := registerAndLogin(t, ctx, "owner")
	other := registerAndLogin(t, ctx, "intruder")

	lat, lng := 50.05, 19.94
	resp, err := request(ctx, owner.AccessToken).
		SetBody(models.MarkerReq{Lat: &lat, Lng: &lng, EmojiCode: "🍕", Title: "Pizza"}).
		SetResult(&models.MarkerResp{}).
		Post(endpoint("/api/markers"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	created := resp.Result().(*models.MarkerResp)

	resp, err = request(ctx, other.AccessToken).
		Delete(endpoint("/api/markers/" + created.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	resp, err = request(ctx, "").
		Post(endpoint("/api/markers"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}
