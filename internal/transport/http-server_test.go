package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db/dbtest"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

const seedPassword = "haslo123"

var (
	adminID     = uuid.MustParse("11111111-1111-1111-1111-11111111111a")
	testID      = uuid.MustParse("22222222-2222-2222-2222-22222222222a")
	test2ID     = uuid.MustParse("33333333-3333-3333-3333-33333333333a")
	zakrzowekID = uuid.MustParse("55555555-5555-5555-5555-55555555555c")
	commentID   = uuid.MustParse("88888888-8888-8888-8888-88888888888d")
)

type testServer struct {
	*HTTPServer
	jwt *auth.JWTManager
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.MetricsEnabled = true
	for _, m := range mutate {
		m(&cfg)
	}

	gdb := dbtest.New(t)
	hasher := auth.NewHasherWithCost(bcrypt.MinCost)
	hash, err := hasher.Hash(seedPassword)
	require.NoError(t, err)
	_, err = db.Seed(context.Background(), gdb, hash)
	require.NoError(t, err)

	jwt, err := auth.NewJWTManager(&cfg)
	require.NoError(t, err)

	repo := store.NewGormRepository(gdb)
	v := validation.New()
	l := zap.NewNop().Sugar()

	srv := New(&cfg, Services{
		Markers:  service.NewMarkers(repo, v, l),
		Tags:     service.NewTags(repo, v, l),
		Comments: service.NewComments(repo, v, l),
		Auth:     service.NewAuth(&cfg, repo, jwt, hasher, v, l),
		Users:    service.NewUsers(repo, v, l),
		Reports:  service.NewReports(repo, l),
	}, l)
	t.Cleanup(srv.limiter.Stop)

	return &testServer{HTTPServer: srv, jwt: jwt}
}

func (s *testServer) token(t *testing.T, id uuid.UUID, username, role string) string {
	t.Helper()
	token, err := s.jwt.Generate(id, username, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestCensorBody(t *testing.T) {
	b := `{
		"email": "email@email.com",
		"password": "123456789123"
	}`

	got := censorBody([]byte(b))
	assert.JSONEq(t, `{
		"email": "email@email.com",
		"password": "$censored"
	}`, string(got))
}

func TestCensorBodyKeepsNonJSON(t *testing.T) {
	assert.Equal(t, "not json", string(censorBody([]byte("not json"))))
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/ping", "", nil)

	status, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "emojimap_http_requests_total")
}

func TestListPublicMarkers(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/markers/public", "", nil)
	require.Equal(t, http.StatusOK, status)

	markers := decode[[]map[string]interface{}](t, body)
	require.Len(t, markers, 4)
	for _, key := range []string{"id", "ownerId", "ownerDisplayName", "lat", "lng", "emojiCode", "title", "description", "tags", "visibility", "createdAt"} {
		assert.Contains(t, markers[0], key)
	}
}

func TestFeedTagFilter(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/markers?tags=Natura,SPORT", "", nil)
	require.Equal(t, http.StatusOK, status)
	markers := decode[[]map[string]interface{}](t, body)
	assert.Len(t, markers, 2)
}

func TestCreateMarkerRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/markers", "", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, body).Code)

	status, _ = s.do(t, http.MethodGet, "/api/markers/public", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMarkerLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testID, "Test", "user")
	bob := s.token(t, test2ID, "Test2", "user")

	status, body := s.do(t, http.MethodPost, "/api/markers", alice, map[string]interface{}{
		"lat":       50.06,
		"lng":       19.93,
		"emojiCode": "CASTLE",
		"title":     "Wawel",
		"tags":      []string{"Kultura", "Zamki"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[map[string]interface{}](t, body)
	assert.Equal(t, "Test", created["ownerDisplayName"])
	assert.Equal(t, "public", created["visibility"])
	assert.ElementsMatch(t, []interface{}{"Kultura", "Zamki"}, created["tags"])
	id := created["id"].(string)

	status, _ = s.do(t, http.MethodPut, "/api/markers/"+id, bob, map[string]interface{}{
		"lat": 0, "lng": 0, "emojiCode": "X", "title": "Mine now",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPut, "/api/markers/"+id, alice, map[string]interface{}{
		"lat": 0, "lng": 0, "emojiCode": "CASTLE", "title": "Wawel", "tags": []string{"Kultura"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, []interface{}{"Kultura"}, decode[map[string]interface{}](t, body)["tags"])

	status, body = s.do(t, http.MethodGet, "/api/tags/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), "Zamki")

	status, body = s.do(t, http.MethodDelete, "/api/markers/"+id, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":true}`, string(body))

	status, _ = s.do(t, http.MethodGet, "/api/markers/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMarkerValidationDetails(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testID, "Test", "user")

	status, body := s.do(t, http.MethodPost, "/api/markers", alice, map[string]interface{}{
		"lat": 120, "lng": 19.93, "emojiCode": "PIN", "title": "Zły", "tags": []string{"ok", " "},
	})
	require.Equal(t, http.StatusBadRequest, status)
	e := decode[errorBody](t, body)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Details, "lat")
	assert.Contains(t, e.Details, "tags[1]")
}

func TestBadPathParam(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/markers/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[errorBody](t, body).Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, body).Code)
}

func TestDuplicateTagConflict(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testID, "Test", "user")

	status, body := s.do(t, http.MethodPost, "/api/tags", alice, map[string]string{"label": "natura"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", decode[errorBody](t, body).Code)

	status, body = s.do(t, http.MethodPost, "/api/tags", alice, map[string]string{"label": "Rowery", "colorHex": "#fff"})
	require.Equal(t, http.StatusCreated, status)
	tag := decode[map[string]interface{}](t, body)
	assert.Equal(t, "#fff", tag["colorHex"])
	assert.Equal(t, testID.String(), tag["ownerId"])
}

func TestDeleteCommentByStranger(t *testing.T) {
	s := newTestServer(t)
	bob := s.token(t, test2ID, "Test2", "user")

	status, _ := s.do(t, http.MethodDelete, "/api/comments/"+commentID.String(), bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodGet, "/api/comments/marker/66666666-6666-6666-6666-66666666666c", "", nil)
	require.Equal(t, http.StatusOK, status)
	comments := decode[[]map[string]interface{}](t, body)
	require.Len(t, comments, 1)
	assert.Equal(t, "Test", comments[0]["authorDisplayName"])
}

func TestAddComment(t *testing.T) {
	s := newTestServer(t)
	bob := s.token(t, test2ID, "Test2", "user")

	status, body := s.do(t, http.MethodPost, "/api/comments", bob, map[string]string{
		"markerId": zakrzowekID.String(),
		"content":  "Byłem wczoraj",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	c := decode[map[string]interface{}](t, body)
	assert.Equal(t, "Test2", c["authorDisplayName"])
	assert.Equal(t, zakrzowekID.String(), c["markerId"])
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testID, "Test", "user")
	admin := s.token(t, adminID, "Admin", "admin")

	status, _ := s.do(t, http.MethodGet, "/api/users", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, body), 3)

	status, body = s.do(t, http.MethodGet, "/api/reports/admin-summary", admin, nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[map[string]interface{}](t, body)
	assert.EqualValues(t, 3, summary["totalUsers"])
	assert.Len(t, summary["trending"], 4)

	status, _ = s.do(t, http.MethodGet, "/api/reports/admin-summary", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodDelete, "/api/users/"+test2ID.String(), admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/markers/user/"+test2ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, body), 1)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "test@test.com",
		"password": seedPassword,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	tokens := decode[map[string]interface{}](t, body)
	assert.EqualValues(t, 3600, tokens["expiresIn"])

	status, body = s.do(t, http.MethodGet, "/api/auth/me", tokens["accessToken"].(string), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Test", decode[map[string]interface{}](t, body)["username"])

	status, body = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"userId":       testID.String(),
		"refreshToken": tokens["refreshToken"].(string),
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "test@test.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "nowy",
		"email":    "nowy@example.com",
		"password": "abc",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.NotContains(t, string(body), "password")

	status, _ = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "nowy2",
		"email":    "nowy@example.com",
		"password": "abc",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimit = 0.001
		cfg.AuthRateBurst = 2
	})
	creds := map[string]string{"email": "test@test.com", "password": "wrong"}

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, string(apperrors.CodeRateLimited), decode[errorBody](t, body).Code)
}

func TestTrendingIsPublic(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/reports/trending", "", nil)
	require.Equal(t, http.StatusOK, status)
	rows := decode[[]map[string]interface{}](t, body)
	require.Len(t, rows, 4)
	assert.EqualValues(t, 1, rows[0]["commentCount"])
}
