package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler upgrades the request and keeps the connection registered until the
// client goes away. The role must already be set on the context.
func (h *Hub) Handler(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.Register(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.Unregister(ws)
}
