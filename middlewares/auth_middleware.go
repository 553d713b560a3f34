package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"

	// TokenCookie carries the JWT for server-rendered pages.
	TokenCookie = "token"
)

// ErrAccountRevoked rejects a valid token whose user has been deleted.
var ErrAccountRevoked = errors.New("account no longer exists")

// CurrentRole loads the role stored for the token's user. The role in the
// token is only what it was at login; demotions apply on the next request.
func CurrentRole(db *gorm.DB, claims *utils.CustomClaims) (string, error) {
	var user models.User
	err := db.Select("id", "role").First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAccountRevoked
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// authenticate parses tokenString and sets the user on the context. It writes
// the error response itself and reports whether the request may go on.
func authenticate(c *gin.Context, db *gorm.DB, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return false
	}

	role, err := CurrentRole(db, claims)
	switch {
	case errors.Is(err, ErrAccountRevoked):
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return false
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		c.Abort()
		return false
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, role)
	c.Set(CtxToken, tokenString)
	return true
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the token cookie.
func ExtractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("format token tidak valid")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Authorization header missing")
}

func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := ExtractToken(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if authenticate(c, db, tokenString) {
			c.Next()
		}
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, errors.New("You do not have permission"))
		c.Abort()
	}
}

// CurrentUserID returns the user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
