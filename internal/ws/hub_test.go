package ws

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) map[string]any {
	t.Helper()

	select {
	case data := <-c.send:
		var ev map[string]any
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func TestHubBroadcastReachesEveryMember(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	a := NewClient(context.Background(), nil, 1, 10, hub.Metrics())
	b := NewClient(context.Background(), nil, 2, 10, hub.Metrics())
	outsider := NewClient(context.Background(), nil, 3, 11, hub.Metrics())
	hub.Join(a)
	hub.Join(b)
	hub.Join(outsider)

	hub.Broadcast(10, DeletedEvent(5))

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		assert.Equal(t, EventTypeChatMessage, ev["type"])
		assert.Equal(t, EventDelete, ev["action"])
		assert.EqualValues(t, 5, ev["message_id"])
	}

	select {
	case <-outsider.send:
		t.Fatal("broadcast leaked into another chat")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastKeepsOrder(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	c := NewClient(context.Background(), nil, 1, 10, hub.Metrics())
	hub.Join(c)

	for i := 1; i <= 20; i++ {
		hub.Broadcast(10, DeletedEvent(uint(i)))
	}
	for i := 1; i <= 20; i++ {
		assert.EqualValues(t, i, receive(t, c)["message_id"])
	}
}

func TestHubLeaveIsIdempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	ctx := context.Background()

	c := NewClient(ctx, nil, 1, 10, hub.Metrics())
	hub.Leave(c)

	hub.Join(c)
	active, err := hub.IsUserActive(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, active)

	hub.Leave(c)
	hub.Leave(c)
	active, err = hub.IsUserActive(ctx, 10, 1)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, 0, hub.GetRoomInfo(10).ActiveClients)
}

func TestHubCleanupDropsIdleRooms(t *testing.T) {
	hub := NewHub(HubOptions{CleanupInterval: time.Hour, IdleRoomTTL: 0})
	defer hub.Shutdown()

	c := NewClient(context.Background(), nil, 1, 10, hub.Metrics())
	hub.Join(c)
	hub.cleanupInactiveRooms()
	assert.NotNil(t, hub.GetRoomInfo(10), "rooms with members stay")

	hub.Leave(c)
	hub.cleanupInactiveRooms()
	assert.Nil(t, hub.GetRoomInfo(10))
}

func TestClientDropsFramesAfterClose(t *testing.T) {
	c := NewClient(context.Background(), nil, 1, 10, nil)
	c.Close()
	c.Close()

	assert.True(t, c.IsClosed())
	assert.False(t, c.SendRaw([]byte(`{}`)))
}

func TestHubCollector(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	hub.Join(NewClient(context.Background(), nil, 1, 10, hub.Metrics()))
	hub.Join(NewClient(context.Background(), nil, 2, 10, hub.Metrics()))

	assert.Equal(t, 8, testutil.CollectAndCount(hub.Collector()))

	expected := `
# HELP chat_ws_connections Open WebSocket sessions.
# TYPE chat_ws_connections gauge
chat_ws_connections 2
`
	assert.NoError(t, testutil.CollectAndCompare(hub.Collector(), strings.NewReader(expected), "chat_ws_connections"))
}
