package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/response"
)

const currentUserKey = "current_user"

// Authenticator resolves bearer tokens to users.
type Authenticator interface {
	ParseToken(token string) (string, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

func abort(c *gin.Context, code response.APIResponseCode) {
	c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](code, nil))
}

// Authenticate loads the user named by the bearer token, if any. Requests
// without a token pass through anonymous; bad tokens and inactive users are
// rejected.
func Authenticate(auth Authenticator, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, response.APIResponseCodeUnauthorized)
			return
		}
		userID, err := auth.ParseToken(token)
		if err != nil {
			abort(c, response.APIResponseCodeUnauthorized)
			return
		}
		u, err := auth.Get(c.Request.Context(), userID)
		if err != nil || !u.IsActive {
			abort(c, response.APIResponseCodeUnauthorized)
			return
		}

		c.Set(currentUserKey, u)
		c.Set(string(logctx.UserIDKey), u.ID)
		lg := logctx.FromGin(c, base).With("user_id", u.ID)
		setLogger(c, lg)
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// SetCurrentUser is used by tests to stand in for Authenticate.
func SetCurrentUser(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, u)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abort(c, response.APIResponseCodeUnauthorized)
			return
		}
		c.Next()
	}
}

func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abort(c, response.APIResponseCodeUnauthorized)
			return
		}
		if !u.IsStaff && !u.IsSuperuser {
			abort(c, response.APIResponseCodeForbidden)
			return
		}
		c.Next()
	}
}
