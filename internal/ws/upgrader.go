package ws

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// NewUpgrader returns an upgrader accepting the given origins. Requests
// without an Origin header come from non-browser clients and are accepted.
// allowAll disables the check, for development.
func NewUpgrader(origins []string, allowAll bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowAll {
				return true
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(origins, origin)
		},
	}
}
