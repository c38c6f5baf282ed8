package proto

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db/dbtest"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := dbtest.New(t)
	hash, err := auth.NewHasherWithCost(bcrypt.MinCost).Hash("x")
	require.NoError(t, err)
	_, err = db.Seed(context.Background(), gdb, hash)
	require.NoError(t, err)
	return gdb
}

func TestModuleServesOverTCP(t *testing.T) {
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.GRPCPort = "0"
	gdb := seededDB(t)

	var server *MapServerImpl
	app := fxtest.New(t,
		fx.Supply(&cfg),
		fx.Provide(
			func() *gorm.DB { return gdb },
			func() *zap.SugaredLogger { return zap.NewNop().Sugar() },
		),
		auth.Module,
		store.Module,
		service.Module,
		Module,
		fx.Populate(&server),
	)
	app.RequireStart()
	defer app.RequireStop()

	conn, err := grpc.NewClient(server.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	markers, err := NewMapClient(conn).ListPublicMarkers(context.Background())
	require.NoError(t, err)
	assert.Len(t, markers.GetValues(), 4)
}

func TestMapServerOverBufconn(t *testing.T) {
	gdb := seededDB(t)
	repo := store.NewGormRepository(gdb)
	l := zap.NewNop().Sugar()
	srv := NewMapServer(
		service.NewMarkers(repo, nil, l),
		service.NewTags(repo, nil, l),
		service.NewReports(repo, l),
		l,
	)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := NewMapClient(conn)
	ctx := context.Background()

	markers, err := client.ListPublicMarkers(ctx)
	require.NoError(t, err)
	require.Len(t, markers.GetValues(), 4)
	first := markers.GetValues()[0].GetStructValue().GetFields()
	assert.Equal(t, "Muzeum Narodowe", first["title"].GetStringValue())
	assert.Equal(t, "MUSEUM", first["emojiCode"].GetStringValue())
	assert.Equal(t, "Kultura", first["tags"].GetListValue().GetValues()[0].GetStringValue())

	tags, err := client.ListPublicTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags.GetValues(), 4)

	trending, err := client.TrendingMarkers(ctx)
	require.NoError(t, err)
	require.Len(t, trending.GetValues(), 4)
	assert.Equal(t, float64(1), trending.GetValues()[0].GetStructValue().GetFields()["commentCount"].GetNumberValue())
}

func TestToStatus(t *testing.T) {
	s := &MapServerImpl{logger: zap.NewNop().Sugar()}

	assert.Equal(t, codes.NotFound, status.Code(s.toStatus(apperrors.NotFound("marker not found"))))
	assert.Equal(t, codes.PermissionDenied, status.Code(s.toStatus(apperrors.ErrForbidden)))
	assert.Equal(t, codes.AlreadyExists, status.Code(s.toStatus(apperrors.ErrConflict)))

	internal := s.toStatus(assert.AnError)
	assert.Equal(t, codes.Internal, status.Code(internal))
	assert.NotContains(t, internal.Error(), assert.AnError.Error())
}
