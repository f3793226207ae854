package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

func TestServer_PublishBroadcastsToConnectedClient(t *testing.T) {
	s := New("")
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Give the server goroutine time to register the client.
	time.Sleep(50 * time.Millisecond)

	state := []particle.Particle{particle.New(0, 1, 2, 3, 4)}
	s.Publish(7, state)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var got snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Step != 7 {
		t.Errorf("want step 7, got %d", got.Step)
	}
	if len(got.Particles) != 1 || got.Particles[0].Index != 0 {
		t.Errorf("unexpected particles: %+v", got.Particles)
	}
}

func TestServer_PublishWithNoClientsIsNoop(t *testing.T) {
	s := New("")
	s.Publish(0, []particle.Particle{particle.New(0, 0, 0, 0, 0)})
}

func TestServer_PublishRateLimited(t *testing.T) {
	s := New("")
	s.last = time.Now()
	// Immediately after setting s.last, a second publish within the
	// minimum interval must be dropped without panicking even though no
	// clients are connected.
	s.Publish(1, nil)
}
