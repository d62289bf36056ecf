package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleSessionEvents upgrades to a websocket and streams session change
// events (step and status transitions) until the client disconnects or
// the subscription channel closes. Clients that cannot keep up miss
// events rather than stalling the flow.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	events, cancel, err := s.flow.Watch(chi.URLParam(r, "id"))
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Reader goroutine: drain control frames and detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
