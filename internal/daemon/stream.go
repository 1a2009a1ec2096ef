package daemon

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"meetingscribe/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API binds to loopback by default and the CLI sends no Origin
	// header; browser cross-origin access is not a supported surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// handleStream pushes job snapshots over a websocket so the CLI can follow
// progress without polling. The current snapshot, if any, is sent first.
func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		s.logger.Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := s.daemon.manager.Subscribe()
	defer unsubscribe()

	if snap, ok := s.daemon.manager.Active(); ok {
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}

	// Drain client frames so close handshakes and pongs are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
