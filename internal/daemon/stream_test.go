package daemon

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"meetingscribe/internal/jobs"
)

func TestStreamDeliversJobSnapshots(t *testing.T) {
	d, _ := newTestDaemon(t)
	srv := newTestServer(t, d)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/transcribe/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Preflight fails in this environment, so the job terminates quickly;
	// the stream must still deliver the terminal snapshot.
	reply, err := http.Post(srv.URL+"/api/transcribe", "application/json",
		strings.NewReader(`{"meetingId":"2024-05-01/roomA/09-00-00"}`))
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	reply.Body.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var snap jobs.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		if snap.State.Terminal() {
			if snap.State != jobs.StateFailed {
				t.Errorf("state = %s, want failed", snap.State)
			}
			return
		}
	}
}
