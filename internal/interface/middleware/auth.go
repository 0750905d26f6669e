package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/pkg/response"
)

const userKey = "user"

// RequireAuth resolves the Authorization bearer token to a live user row and
// stores it in the Gin context. Missing or malformed headers, undecodable or
// expired tokens, and tokens whose subject no longer exists all produce the
// same 401 with a WWW-Authenticate challenge.
func RequireAuth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c)
			return
		}
		u, err := auth.ResolveToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(userKey, u)
		c.Set("userID", u.ID)
		c.Set("userEmail", u.Email)
		c.Next()
	}
}

// ActiveUser rejects authenticated but unverified accounts. It must run
// after RequireAuth.
func ActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := UserFromCtx(c)
		if u == nil {
			unauthorized(c)
			return
		}
		if !u.Verified {
			response.Error[any](c, http.StatusBadRequest, "inactive user", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. It must run after
// RequireAuth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := UserFromCtx(c)
		if u == nil {
			unauthorized(c)
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
		c.Abort()
	}
}

// UserFromCtx returns the user set by RequireAuth, or nil.
func UserFromCtx(c *gin.Context) *entity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error[any](c, http.StatusUnauthorized, "could not validate credentials", nil)
	c.Abort()
}
