package handlers

import (
	"log/slog"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/realtime"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

// ChatHandler upgrades authenticated requests into live chat connections.
type ChatHandler struct {
	tokens   *auth.TokenService
	userRepo repositories.UserRepository
	hub      *realtime.Hub
	logger   *slog.Logger
}

func NewChatHandler(tokens *auth.TokenService, userRepo repositories.UserRepository, hub *realtime.Hub, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		tokens:   tokens,
		userRepo: userRepo,
		hub:      hub,
		logger:   logger,
	}
}

// Connect authenticates off the session cookie, accepts the websocket and
// runs the read loop until the peer goes away. An unauthenticated upgrade
// is accepted and closed immediately with a policy violation so the
// browser sees a websocket-level close rather than a failed handshake.
func (h *ChatHandler) Connect(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil {
		token = ""
	}

	claims := h.tokens.Verify(token)
	var handle string
	if claims != nil {
		user, err := h.userRepo.Find(c.Request.Context(), repositories.UserLookup{ID: claims.Subject})
		if err == nil {
			handle = user.Handle
		}
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}

	if handle == "" {
		conn.Close(websocket.StatusPolicyViolation, "authentication required")
		return
	}

	client := realtime.NewClient(handle, conn)
	client.Serve(c.Request.Context(), h.hub, h.logger)
}
