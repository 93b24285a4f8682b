package complaint

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// statsInterval is how often the stats feed pushes a fresh snapshot
const statsInterval = 3 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatsFeed handles GET /complaints/stats/ws
// @Summary      Live system statistics over websocket
// @Description  Upgrades to a websocket and pushes system-wide complaint counts every few seconds
// @Tags         complaints
// @Router       /complaints/stats/ws [get]
func (h *Handler) StatsFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// reader goroutine only detects the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		stats, err := h.service.SystemStats(r.Context())
		if err != nil {
			return
		}
		if err := conn.WriteJSON(stats); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
