package wshub

import (
	"net/http"

	ws "github.com/coder/websocket"

	"list-app-go/pkg/logger"
)

// Handler returns an HTTP handler that upgrades connections to WebSocket
// and runs them as Hub clients.
func Handler(hub *Hub, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Mobile clients connect from app origins
		})
		if err != nil {
			log.Warn("wshub: accept", "err", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
