package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type nopController struct{}

func (nopController) StartRecording() error                          { return nil }
func (nopController) StopRecording(context.Context) error            { return nil }
func (nopController) SendText(context.Context, string) error         { return nil }
func (nopController) SelectPersonality(context.Context, string) error { return nil }

func TestClientReceivesSnapshotOnConnect(t *testing.T) {
	state := NewState(nil)
	state.SetStatus("Ready to serve beer!")
	srv := NewServer(ServerConfig{}, state, nopController{}, nil)

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	defer ts.Close()
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var payload statePayload
	if err := conn.ReadJSON(&payload); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if payload.Type != "state" {
		t.Fatalf("payload type = %q, want state", payload.Type)
	}
	if payload.State.Status != "Ready to serve beer!" {
		t.Fatalf("status = %q", payload.State.Status)
	}
}

func TestBroadcastAfterClientCloseIsSafe(t *testing.T) {
	state := NewState(nil)
	srv := NewServer(ServerConfig{}, state, nopController{}, nil)

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	defer ts.Close()
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var c *client
	deadline := time.Now().Add(5 * time.Second)
	for c == nil {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		srv.mu.Lock()
		for _, cc := range srv.clients {
			c = cc
		}
		srv.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}

	// A broadcast racing the disconnect must not panic or block.
	c.close()
	for i := 0; i < 100; i++ {
		state.SetStatus("Transcribing your speech...")
	}
}
