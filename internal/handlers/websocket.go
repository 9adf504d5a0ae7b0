package handlers

import (
	"github.com/Itachi3355/DegreeWheels-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID)
	}
}
