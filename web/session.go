package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// sessionClaims reads the token cookie set by the login page. Role is
// refreshed from the database and deleted accounts have no session.
func sessionClaims(c *gin.Context, db *gorm.DB) (*utils.CustomClaims, bool) {
	token, err := c.Cookie(middlewares.TokenCookie)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, false
	}
	role, err := middlewares.CurrentRole(db, claims)
	if err != nil {
		if !errors.Is(err, middlewares.ErrAccountRevoked) {
			utils.ErrorLogger.Printf("Error loading session user %d: %v", claims.UserID, err)
		}
		return nil, false
	}
	claims.Role = role
	return claims, true
}

// RequireSession redirects anonymous visitors to the login page.
func (p *Pages) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, p.DB)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connexion")
			c.Abort()
			return
		}
		c.Set(middlewares.CtxUserID, claims.UserID)
		c.Set(middlewares.CtxRole, claims.Role)
		c.Next()
	}
}

func setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, token, int(utils.TokenTTL/time.Second), "/", "", false, true)
}

func clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, "", -1, "/", "", false, true)
}
