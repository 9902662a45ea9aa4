package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamspace/server/internal/repository/connection"
	connInmemory "github.com/jamspace/server/internal/repository/connection/inmemory"
	"github.com/jamspace/server/internal/repository/presence"
	presenceRedis "github.com/jamspace/server/internal/repository/presence/redis"
	"github.com/jamspace/server/pkg/randcode"
)

func newTestService(t *testing.T) (*service, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rc := redisclient.NewClient(&redisclient.Options{
		Addr: s.Addr(),
	})

	presenceRepo := presenceRedis.NewRepo(rc, 24*time.Hour, slog.Default())
	connRepo := connInmemory.NewRepo()

	return NewService(presenceRepo, connRepo, randcode.New(6), slog.Default()), s
}

func connect(t *testing.T, svc *service, playerId string) *connection.Conn {
	t.Helper()
	conn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, svc.ConnectPlayer(context.Background(), &ConnectPlayerParams{
		PlayerId: playerId,
		Conn:     conn,
	}))

	return conn
}

func TestCreateAndJoinRoom(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	connect(t, svc, "host-1")

	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)
	assert.Len(t, createResp.Code, 6)

	connect(t, svc, "ana-1")
	joinResp, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: createResp.Code,
		Name:     "Ana",
		PlayerId: "ana-1",
	})
	require.NoError(t, err)
	assert.Equal(t, createResp.Code, joinResp.RoomCode)
	assert.Equal(t, Player{Id: "ana-1", Name: "Ana", Role: presence.RolePlayer}, joinResp.JoinedPlayer)
	// the snapshot already contains the joiner
	assert.Equal(t, []Player{{Id: "ana-1", Name: "Ana", Role: presence.RolePlayer}}, joinResp.Players)
	// the delta goes to the host only
	assert.Len(t, joinResp.Conns, 1)

	connect(t, svc, "ben-1")
	joinResp2, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: createResp.Code,
		Name:     "Ben",
		PlayerId: "ben-1",
	})
	require.NoError(t, err)
	assert.Len(t, joinResp2.Players, 2)
	// host plus Ana
	assert.Len(t, joinResp2.Conns, 2)
}

func TestJoinUnknownRoom(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.JoinRoom(context.Background(), &JoinRoomParams{
		RoomCode: "000000",
		Name:     "Ana",
		PlayerId: "ana-1",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinExpiredRoom(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	connect(t, svc, "host-1")
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)

	s.FastForward(25 * time.Hour)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: createResp.Code,
		Name:     "Ana",
		PlayerId: "ana-1",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDisconnect(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	connect(t, svc, "host-1")
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)

	connect(t, svc, "ana-1")
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{RoomCode: createResp.Code, Name: "Ana", PlayerId: "ana-1"})
	require.NoError(t, err)

	connect(t, svc, "ben-1")
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{RoomCode: createResp.Code, Name: "Ben", PlayerId: "ben-1"})
	require.NoError(t, err)

	discResp, err := svc.Disconnect(ctx, &DisconnectParams{PlayerId: "ana-1"})
	require.NoError(t, err)
	assert.True(t, discResp.Left)
	assert.Equal(t, createResp.Code, discResp.RoomCode)
	// host plus Ben remain reachable
	assert.Len(t, discResp.Conns, 2)

	// the next joiner's snapshot no longer contains Ana
	connect(t, svc, "cleo-1")
	joinResp, err := svc.JoinRoom(ctx, &JoinRoomParams{RoomCode: createResp.Code, Name: "Cleo", PlayerId: "cleo-1"})
	require.NoError(t, err)
	for _, p := range joinResp.Players {
		assert.NotEqual(t, "ana-1", p.Id)
	}

	// duplicate disconnect is a silent no-op
	discResp, err = svc.Disconnect(ctx, &DisconnectParams{PlayerId: "ana-1"})
	require.NoError(t, err)
	assert.False(t, discResp.Left)
}

func TestDisconnectUnknownPlayer(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Disconnect(context.Background(), &DisconnectParams{PlayerId: "ghost"})
	require.NoError(t, err)
	assert.False(t, resp.Left)
}

func TestPlayPhraseRoutesToHost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	hostConn := connect(t, svc, "host-1")
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)

	connect(t, svc, "ana-1")
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{RoomCode: createResp.Code, Name: "Ana", PlayerId: "ana-1"})
	require.NoError(t, err)

	playResp, err := svc.PlayPhrase(ctx, &PlayPhraseParams{
		RoomCode: createResp.Code,
		SenderId: "ana-1",
		PhraseId: "sentence-1",
	})
	require.NoError(t, err)
	assert.Same(t, hostConn, playResp.HostConn)

	stopResp, err := svc.StopPhrase(ctx, &StopPhraseParams{
		RoomCode: createResp.Code,
		SenderId: "ana-1",
	})
	require.NoError(t, err)
	assert.Same(t, hostConn, stopResp.HostConn)
}

func TestPlayPhraseUnknownRoomIsDropped(t *testing.T) {
	svc, _ := newTestService(t)

	playResp, err := svc.PlayPhrase(context.Background(), &PlayPhraseParams{
		RoomCode: "000000",
		SenderId: "ana-1",
		PhraseId: "sentence-1",
	})
	require.NoError(t, err)
	assert.Nil(t, playResp.HostConn)
}

func TestPlayPhraseHostConnGoneIsDropped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	connect(t, svc, "host-1")
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)

	// host crashed: room binding outlives the connection
	_, err = svc.Disconnect(ctx, &DisconnectParams{PlayerId: "host-1"})
	require.NoError(t, err)

	playResp, err := svc.PlayPhrase(ctx, &PlayPhraseParams{
		RoomCode: createResp.Code,
		SenderId: "ana-1",
		PhraseId: "sentence-1",
	})
	require.NoError(t, err)
	assert.Nil(t, playResp.HostConn)
}

func TestStartPerformance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	connect(t, svc, "host-1")
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{HostId: "host-1"})
	require.NoError(t, err)

	connect(t, svc, "ana-1")
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{RoomCode: createResp.Code, Name: "Ana", PlayerId: "ana-1"})
	require.NoError(t, err)

	startResp, err := svc.StartPerformance(ctx, &StartPerformanceParams{
		RoomCode: createResp.Code,
		SenderId: "host-1",
	})
	require.NoError(t, err)
	// Ana only, the host flips locally
	assert.Len(t, startResp.Conns, 1)

	startResp, err = svc.StartPerformance(ctx, &StartPerformanceParams{
		RoomCode: "000000",
		SenderId: "host-1",
	})
	require.NoError(t, err)
	assert.Empty(t, startResp.Conns)
}
