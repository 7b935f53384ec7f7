package notifyhub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/uploadkit/tool"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // OnlyAllowLocal already restricts to localhost
	},
}

// HandleNotifyWS upgrades the request and keeps the connection registered
// until the client goes away.
func HandleNotifyWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			tool.DefaultLogger.Debugf("[NotifyHub] Upgrade failed: %v", err)
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				tool.DefaultLogger.Debugf("Failed to close WebSocket connection: %v", err)
			}
		}()

		hub.Register(conn)
		defer hub.Unregister(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
