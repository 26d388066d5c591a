package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService   services.AuthService
	secureCookies bool
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   NewBaseHandler(logger),
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// setSessionCookie writes the auth cookie. Max-Age is only a convenience
// bound for the browser; the signed exp inside the token is authoritative.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(auth.RememberMeTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secureCookies, true)
}

// Register creates an account and signs the caller straight in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, false)
	c.JSON(http.StatusOK, OK(result.User))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.Remember)
	c.JSON(http.StatusOK, OK(result.User))
}

// VerifyEmail consumes the emailed token and redirects to the dashboard
// with a fresh session.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, Fail("token is required"))
		return
	}

	result, err := h.authService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, false)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, OK(nil))
}
