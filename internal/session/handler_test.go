package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/pixil98/go-testutil"

	"github.com/hearthview/go-town/internal/messaging"
	"github.com/hearthview/go-town/internal/town"
	"github.com/hearthview/go-town/internal/video"
)

// memBus is an in-memory stand-in for the embedded broker. It serves
// both sides of the bridge: towns publish into it and sessions
// subscribe to it.
type memBus struct {
	mu   sync.Mutex
	subs map[string][]chan []byte
}

func newMemBus() *memBus {
	return &memBus{subs: map[string][]chan []byte{}}
}

func (b *memBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	b.subs[subject] = append(b.subs[subject], ch)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case data := <-ch:
				handler(data)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }, nil
}

func (b *memBus) publish(subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[subject] {
		ch <- data
	}
	return nil
}

func (b *memBus) PublishToTown(townID string, data []byte) error {
	return b.publish(messaging.TownSubject(townID), data)
}

func (b *memBus) PublishToPlayer(playerID string, data []byte) error {
	return b.publish(messaging.PlayerSubject(playerID), data)
}

type failingVideo struct{}

func (failingVideo) GetToken(ctx context.Context, townID, playerID string) (string, error) {
	return "", fmt.Errorf("video provider unavailable")
}

const testMapJSON = `{
	"layers": [
		{"name": "Objects", "objects": [
			{"name": "Name1", "type": "DiscussionArea", "x": 0, "y": 0, "width": 100, "height": 100}
		]}
	]
}`

func newTestSetup(t *testing.T, provider TokenProvider) (*httptest.Server, *town.Store, *memBus) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "indoors.json"), []byte(testMapJSON), 0o644); err != nil {
		t.Fatalf("writing map: %v", err)
	}
	maps, err := town.NewMapStore(dir)
	if err != nil {
		t.Fatalf("loading maps: %v", err)
	}

	bus := newMemBus()
	store := town.NewStore(bus, maps, "indoors.json")

	mux := http.NewServeMux()
	mux.Handle("GET /towns/{townID}/session", NewHandler(store, provider, bus))
	svr := httptest.NewServer(mux)
	t.Cleanup(svr.Close)

	return svr, store, bus
}

func dialSession(t *testing.T, ctx context.Context, svr *httptest.Server, townID, userName string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, svr.URL+"/towns/"+townID+"/session?userName="+userName, nil)
	if err != nil {
		t.Fatalf("dialing session: %v", err)
	}
	return conn
}

// readEvent reads messages until one of the wanted type arrives,
// skipping interleaved broadcasts (joins, area changes).
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string) town.Message {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("reading %s event: %v", eventType, err)
		}
		var msg town.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding message: %v", err)
		}
		if msg.Type == eventType {
			return msg
		}
	}
}

func TestSessionJoinAndMove(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svr, store, _ := newTestSetup(t, video.StaticProvider{})
	tw, err := store.CreateTown("my town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}

	conn := dialSession(t, ctx, svr, tw.ID(), "alice")
	defer conn.Close(websocket.StatusNormalClosure, "")

	msg := readEvent(t, ctx, conn, town.EventInitialize)
	var init town.Initialize
	if err := json.Unmarshal(msg.Payload, &init); err != nil {
		t.Fatalf("decoding initialize: %v", err)
	}
	testutil.AssertEqual(t, "session token length", len(init.SessionToken), 24)
	testutil.AssertEqual(t, "video token", init.ProviderVideoToken, tw.ID()+"-"+init.UserID)
	testutil.AssertEqual(t, "friendly name", init.FriendlyName, "my town")
	testutil.AssertEqual(t, "roster includes self", len(init.CurrentPlayers), 1)
	testutil.AssertEqual(t, "interactables included", len(init.Interactables), 1)
	testutil.AssertEqual(t, "player registered", tw.PlayerBySessionToken(init.SessionToken) != nil, true)

	move, err := town.NewMessage(town.EventPlayerMovement, town.Location{X: 50, Y: 50, Rotation: "left", Moving: true})
	if err != nil {
		t.Fatalf("building movement: %v", err)
	}
	data, _ := json.Marshal(move)
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("sending movement: %v", err)
	}

	msg = readEvent(t, ctx, conn, town.EventPlayerMoved)
	var moved town.PlayerModel
	if err := json.Unmarshal(msg.Payload, &moved); err != nil {
		t.Fatalf("decoding playerMoved: %v", err)
	}
	testutil.AssertEqual(t, "moved player", moved.ID, init.UserID)
	testutil.AssertEqual(t, "moved x", moved.Location.X, 50.0)
	testutil.AssertEqual(t, "moved rotation", moved.Location.Rotation, "left")
}

func TestSessionUnknownTown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svr, _, _ := newTestSetup(t, video.StaticProvider{})
	conn := dialSession(t, ctx, svr, "no-such-town", "alice")

	_, _, err := conn.Read(ctx)
	testutil.AssertEqual(t, "close status", websocket.CloseStatus(err), websocket.StatusPolicyViolation)
}

func TestSessionVideoFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svr, store, _ := newTestSetup(t, failingVideo{})
	tw, err := store.CreateTown("my town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}

	conn := dialSession(t, ctx, svr, tw.ID(), "alice")
	_, _, err = conn.Read(ctx)
	testutil.AssertEqual(t, "close status", websocket.CloseStatus(err), websocket.StatusInternalError)
	testutil.AssertEqual(t, "no partial join", tw.Occupancy(), 0)
}

func TestSessionTownClosing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svr, store, _ := newTestSetup(t, video.StaticProvider{})
	tw, err := store.CreateTown("my town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}

	conn := dialSession(t, ctx, svr, tw.ID(), "alice")
	readEvent(t, ctx, conn, town.EventInitialize)

	store.DeleteTown(tw.ID(), tw.UpdatePassword())

	// The townClosing broadcast is delivered, then the server closes the
	// connection.
	readEvent(t, ctx, conn, town.EventTownClosing)
	_, _, err = conn.Read(ctx)
	testutil.AssertEqual(t, "close status", websocket.CloseStatus(err), websocket.StatusGoingAway)
}
