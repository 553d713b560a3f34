package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// WebSocketAuthMiddleware authenticates upgrade requests. Browsers cannot set
// an Authorization header on a websocket, so the token comes from the token
// query parameter or, for the staff pages, the session cookie.
func WebSocketAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token required"))
			c.Abort()
			return
		}

		if authenticate(c, db, token) {
			c.Next()
		}
	}
}
