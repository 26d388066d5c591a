package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
)

// TokenAuthMiddleware authenticates requests off the session cookie and
// loads the caller into the request context.
type TokenAuthMiddleware struct {
	tokens   *auth.TokenService
	userRepo repositories.UserRepository
}

func NewTokenAuthMiddleware(tokens *auth.TokenService, userRepo repositories.UserRepository) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{tokens: tokens, userRepo: userRepo}
}

// AuthMiddleware verifies the cookie token and resolves the account. Any
// failure aborts with 401; handlers past this point can rely on the actor.
func (m *TokenAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("authentication required"))
			return
		}

		claims := m.tokens.Verify(token)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("invalid or expired token"))
			return
		}

		user, err := m.userRepo.Find(c.Request.Context(), repositories.UserLookup{ID: claims.Subject})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("account no longer exists"))
			return
		}

		c.Set("user_id", user.ID)
		c.Set("handle", user.Handle)
		c.Set("role", user.Role)
		c.Set("actor", &services.Actor{UserID: user.ID, Handle: user.Handle, Role: user.Role})
		c.Next()
	}
}

// RequireRoleMiddleware refuses callers outside the given roles with 403.
// Must run after AuthMiddleware.
func (m *TokenAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("authentication required"))
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Fail("insufficient role"))
	}
}

// CurrentActor returns the authenticated caller, or nil on public routes.
func CurrentActor(c *gin.Context) *services.Actor {
	value, ok := c.Get("actor")
	if !ok {
		return nil
	}
	actor, ok := value.(*services.Actor)
	if !ok {
		return nil
	}
	return actor
}
