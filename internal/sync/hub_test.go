package sync

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesTCPClients(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	hub.Add(server)
	require.Equal(t, 1, hub.Count())

	go hub.BroadcastJSON(MappingEvent{
		Type:        "mapping.create",
		FID:         42,
		MappingName: "Sari-Sari Store",
		At:          time.Now().UTC(),
	})

	sc := bufio.NewScanner(client)
	require.True(t, sc.Scan())

	var ev MappingEvent
	require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
	assert.Equal(t, "mapping.create", ev.Type)
	assert.Equal(t, int64(42), ev.FID)
	assert.Equal(t, "Sari-Sari Store", ev.MappingName)
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	hub.Add(server)
	_ = client.Close()
	_ = server.Close()

	hub.BroadcastJSON(MappingEvent{Type: "mapping.delete", FID: 1})
	assert.Equal(t, 0, hub.Count())
}

func TestRemoveClosesConnection(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	hub.Add(server)
	hub.Remove(server)
	assert.Equal(t, 0, hub.Count())

	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err := client.Read(buf)
	assert.Error(t, err) // peer closed
}

func TestStats(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, Stats{}, hub.Stats())

	server, client := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	hub.Add(server)
	assert.Equal(t, Stats{TCPClients: 1}, hub.Stats())
}

func TestWelcome(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	hub.Add(server)

	go hub.Welcome(server)

	sc := bufio.NewScanner(client)
	require.True(t, sc.Scan())

	var msg map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &msg))
	assert.Equal(t, "welcome", msg["type"])
}
