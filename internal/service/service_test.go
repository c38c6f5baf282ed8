package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db/dbtest"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

const seedPassword = "haslo123"

// Ids of the seeded demo rows.
var (
	adminID = uuid.MustParse("11111111-1111-1111-1111-11111111111a")
	testID  = uuid.MustParse("22222222-2222-2222-2222-22222222222a")
	test2ID = uuid.MustParse("33333333-3333-3333-3333-33333333333a")

	zakrzowekID = uuid.MustParse("55555555-5555-5555-5555-55555555555c")
	pizzaID     = uuid.MustParse("66666666-6666-6666-6666-66666666666c")
	basenID     = uuid.MustParse("77777777-7777-7777-7777-77777777777c")
	museumID    = uuid.MustParse("88888888-8888-8888-8888-88888888888c")

	naturaTagID   = uuid.MustParse("33333333-3333-3333-3333-33333333333b")
	jedzenieTagID = uuid.MustParse("44444444-4444-4444-4444-44444444444b")

	pizzaCommentID = uuid.MustParse("88888888-8888-8888-8888-88888888888d")

	admin = policy.Principal{ID: adminID, Role: policy.RoleAdmin}
	alice = policy.Principal{ID: testID, Role: policy.RoleUser}
	bob   = policy.Principal{ID: test2ID, Role: policy.RoleUser}
)

type env struct {
	repo     *store.GormRepository
	markers  *Markers
	tags     *Tags
	comments *Comments
	auth     *Auth
	users    *Users
	reports  *Reports
}

func newEnv(t *testing.T, seed bool) *env {
	t.Helper()

	gdb := dbtest.New(t)
	hasher := auth.NewHasherWithCost(bcrypt.MinCost)
	if seed {
		hash, err := hasher.Hash(seedPassword)
		require.NoError(t, err)
		_, err = db.Seed(context.Background(), gdb, hash)
		require.NoError(t, err)
	}

	cfg := config.Default()
	jwt, err := auth.NewJWTManager(&cfg)
	require.NoError(t, err)

	repo := store.NewGormRepository(gdb)
	v := validation.New()
	l := zap.NewNop().Sugar()

	return &env{
		repo:     repo,
		markers:  NewMarkers(repo, v, l),
		tags:     NewTags(repo, v, l),
		comments: NewComments(repo, v, l),
		auth:     NewAuth(&cfg, repo, jwt, hasher, v, l),
		users:    NewUsers(repo, v, l),
		reports:  NewReports(repo, l),
	}
}

// newUser inserts a plain user and returns its principal.
func (e *env) newUser(t *testing.T, username string) policy.Principal {
	t.Helper()
	u := db.User{Username: username, Email: username + "@example.com", Password: "x", Role: "user"}
	require.NoError(t, e.repo.CreateUser(context.Background(), &u))
	return policy.Principal{ID: u.ID, Role: policy.RoleUser}
}

func markerReq(title string, tags ...string) *models.MarkerReq {
	lat, lng := 50.06, 19.93
	return &models.MarkerReq{
		Lat:       &lat,
		Lng:       &lng,
		EmojiCode: "PIN",
		Title:     title,
		Tags:      tags,
	}
}

func markerTitles(markers []db.Marker) []string {
	out := make([]string, len(markers))
	for i := range markers {
		out[i] = markers[i].Title
	}
	return out
}

func tagLabels(tags []db.Tag) []string {
	out := make([]string, len(tags))
	for i := range tags {
		out[i] = tags[i].Label
	}
	return out
}
