package httpapi

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSessionEventsStreamsStepChanges(t *testing.T) {
	ts := newTestServer(t, "test_httpapi_events", time.Hour)

	status, created := postJSON(t, ts.URL+"/v1/sessions", map[string]string{
		"locale":      "en-US",
		"timezone":    "UTC",
		"app_version": "1.0.0",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", status, http.StatusCreated)
	}
	sessionID, _ := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + sessionID + "/events"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s error = %v", wsURL, err)
	}
	defer conn.Close()
	defer res.Body.Close()

	status, scanned := postJSON(t, ts.URL+"/v1/sessions/"+sessionID+"/scan-menu", map[string]string{})
	if status != http.StatusOK {
		t.Fatalf("scan status = %d, want %d: %+v", status, http.StatusOK, scanned)
	}

	var ev struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
		Step      string `json:"current_step"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.SessionID != sessionID {
		t.Fatalf("event session_id = %q, want %q", ev.SessionID, sessionID)
	}
	if ev.Step != "menu" {
		t.Fatalf("event step = %q, want menu", ev.Step)
	}
	if ev.Status != "active" {
		t.Fatalf("event status = %q, want active", ev.Status)
	}
}

func TestSessionEventsUnknownSession(t *testing.T) {
	ts := newTestServer(t, "test_httpapi_events_missing", time.Hour)

	res, err := http.Get(ts.URL + "/v1/sessions/missing/events")
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}
