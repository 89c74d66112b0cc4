package stream_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/adapters/stream"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

func newEngine(t *testing.T) *world.Engine {
	t.Helper()
	worker, err := workforce.NewWorker("m1", "Durin", "miner", 100)
	require.NoError(t, err)
	w, err := world.NewWorld(world.Settings{
		Fleet:    fleet.DefaultConfig(),
		Capacity: storage.FlatCapacity(1000),
		Level:    5,
	}, worker)
	require.NoError(t, err)
	require.NoError(t, w.Sim.AssignWorker("stone", 0, "m1"))
	engine, err := world.NewEngine(w)
	require.NoError(t, err)
	return engine
}

func dial(t *testing.T, hub *stream.Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, v))
}

func TestHub_SendsHelloThenTicks(t *testing.T) {
	engine := newEngine(t)
	hub := stream.NewHub(engine, nil)
	engine.Subscribe(hub)
	conn := dial(t, hub)

	var hello stream.HelloMsg
	readJSON(t, conn, &hello)
	assert.Equal(t, stream.TypeHello, hello.Type)
	assert.Equal(t, stream.ProtocolVersion, hello.ProtocolVersion)
	assert.Zero(t, hello.Tick)

	engine.Tick(context.Background())

	var tick stream.TickMsg
	readJSON(t, conn, &tick)
	assert.Equal(t, stream.TypeTick, tick.Type)
	assert.Equal(t, int64(1), tick.Tick)
	assert.InDelta(t, 10.0, tick.Production["stone"], 1e-9)
}

func TestHub_ForwardsDeposits(t *testing.T) {
	engine := newEngine(t)
	hub := stream.NewHub(engine, nil)
	hub.Start(context.Background())
	defer hub.Stop()
	conn := dial(t, hub)

	var hello stream.HelloMsg
	readJSON(t, conn, &hello)

	require.NoError(t, engine.Execute(context.Background(), func(w world.World) error {
		return w.Store.Deposit("stone", 25)
	}))

	var deposit stream.DepositMsg
	readJSON(t, conn, &deposit)
	assert.Equal(t, stream.TypeDeposit, deposit.Type)
	assert.Equal(t, "stone", deposit.ResourceID)
	assert.InDelta(t, 25.0, deposit.Amount, 1e-9)
	assert.InDelta(t, 25.0, deposit.Stock, 1e-9)
}

func TestHub_StopDisconnectsSubscribers(t *testing.T) {
	engine := newEngine(t)
	hub := stream.NewHub(engine, nil)
	hub.Start(context.Background())
	conn := dial(t, hub)

	var hello stream.HelloMsg
	readJSON(t, conn, &hello)
	assert.Equal(t, 1, hub.Subscribers())

	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
