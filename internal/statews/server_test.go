package statews

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/core/gesture"
	"github.com/ingyamilmolinar/rangeslider/core/model"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

type inbound struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts"`
	Data json.RawMessage `json:"data"`
}

func startServer(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Errorf("server did not stop")
		}
	})
	return ln.Addr().String()
}

func readFrame(t *testing.T, conn *websocket.Conn) inbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m inbound
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestStateInitThenSelectionChanged(t *testing.T) {
	srv := NewServer(game_log.Discard(), ServerConfig{})
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return fixed }

	opts := engine.DefaultOptions()
	opts.Name = "price"
	sl := engine.New(opts, nil, nil)
	sl.SetSelectedMin(10)
	srv.Attach(sl)

	addr := startServer(t, srv)
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	init := readFrame(t, conn)
	require.Equal(t, "state_init", init.Type)
	require.NotNil(t, init.Ts)
	assert.True(t, fixed.Equal(*init.Ts))
	var data stateInitData
	require.NoError(t, json.Unmarshal(init.Data, &data))
	require.Len(t, data.Sliders, 1)
	assert.Equal(t, "price", data.Sliders[0].Name)
	assert.Equal(t, 10.0, data.Sliders[0].SelectedMin)
	assert.Equal(t, 100.0, data.Sliders[0].SelectedMax)

	waitUntil(t, time.Second, func() bool { return srv.Hub().Clients() == 1 }, "client not registered")

	sl.SetWidth(300)
	g := sl.Geometry()
	sl.Handle(gesture.Event{Kind: gesture.Press, X: model.NormalizedToScreen(1, g.Width, g.Padding)})
	sl.Handle(gesture.Event{Kind: gesture.Release, X: model.NormalizedToScreen(0.6, g.Width, g.Padding)})

	m := readFrame(t, conn)
	require.Equal(t, "selection_changed", m.Type)
	var changed selectionChangedData
	require.NoError(t, json.Unmarshal(m.Data, &changed))
	assert.Equal(t, "max", changed.Thumb)
	assert.Equal(t, 60.0, changed.SelectedMax)
	assert.Equal(t, sl.ID(), changed.ID)

	assert.Equal(t, 60.0, srv.Snapshot()[0].SelectedMax)
}

func TestSnapshotEndpoint(t *testing.T) {
	srv := NewServer(nil, ServerConfig{})
	a := engine.DefaultOptions()
	a.Name = "a"
	b := engine.DefaultOptions()
	b.Name = "b"
	srv.Attach(engine.New(a, nil, nil))
	srv.Attach(engine.New(b, nil, nil))

	addr := startServer(t, srv)
	var resp *http.Response
	var err error
	waitUntil(t, time.Second, func() bool {
		resp, err = http.Get("http://" + addr + "/ws/snapshot")
		return err == nil
	}, "snapshot endpoint not reachable")
	defer resp.Body.Close()
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	var data stateInitData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	require.Len(t, data.Sliders, 2)
	assert.Equal(t, "a", data.Sliders[0].Name)
	assert.Equal(t, "b", data.Sliders[1].Name)
}

func TestAttachTwiceKeepsOneEntry(t *testing.T) {
	srv := NewServer(nil, ServerConfig{})
	sl := engine.New(engine.DefaultOptions(), nil, nil)
	srv.Attach(sl)
	srv.Attach(sl)
	assert.Len(t, srv.Snapshot(), 1)
}

func TestListenAndServeBadAddr(t *testing.T) {
	srv := NewServer(nil, ServerConfig{})
	err := srv.ListenAndServe(context.Background(), "256.0.0.1:-1")
	require.Error(t, err)
}

func TestPublishUpdatesSnapshot(t *testing.T) {
	srv := NewServer(nil, ServerConfig{})
	sl := engine.New(engine.DefaultOptions(), nil, nil)
	srv.Attach(sl)

	sl.SetSelectedMax(40)
	assert.Equal(t, 100.0, srv.Snapshot()[0].SelectedMax)

	srv.Publish(sl)
	assert.Equal(t, 40.0, srv.Snapshot()[0].SelectedMax)
}
